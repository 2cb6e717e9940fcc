package models

import "time"

// OrderStatus represents the server-authoritative stage of order fulfillment.
type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "placed"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusPickedUp       OrderStatus = "picked_up"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Terminal reports whether no further status changes are expected.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Customer is the identity an order is placed under.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
}

// DeliveryInfo carries the requested delivery slot.
type DeliveryInfo struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	IsToday bool   `json:"isToday"`
}

// Rider is the delivery person assigned by the server once an order is
// picked up. Nil until assignment.
type Rider struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle,omitempty"`
}

// Order mirrors the server's view of a submitted order. The client never
// mutates it locally; Status is refreshed by re-fetching.
type Order struct {
	ID             string       `json:"id"`
	Items          []LineItem   `json:"items"`
	Customer       Customer     `json:"customer"`
	TotalAmount    float64      `json:"totalAmount"`
	PaymentMethod  string       `json:"paymentMethod"`
	Notes          string       `json:"notes,omitempty"`
	DeliveryInfo   DeliveryInfo `json:"deliveryInfo"`
	Status         OrderStatus  `json:"status"`
	Rider          *Rider       `json:"rider,omitempty"`
	IdempotencyKey string       `json:"idempotencyKey,omitempty"`
	CreatedAt      time.Time    `json:"createdAt,omitempty"`
}
