// Package checkout turns cart or single-booking state into a persisted
// order. It validates preconditions before any network call, recomputes the
// total at submission time, and clears the cart only after a cart-path
// order actually succeeds.
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tiffinbox/internal/cart"
	"tiffinbox/internal/models"
	"tiffinbox/internal/monitoring"
	"tiffinbox/internal/pricing"
)

// Validation errors, detected before any network call and never retried
// automatically.
var (
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrEmptyOrder      = errors.New("order has no items")
)

// PlaceholderAddress substitutes for a missing delivery address; the
// payload never carries a null address.
const PlaceholderAddress = "Address not provided"

// OrderAPI is the slice of the backend client the coordinator needs.
type OrderAPI interface {
	CreateOrder(ctx context.Context, order *models.Order) (string, error)
}

// Identity provides the authenticated user, nil when logged out.
type Identity interface {
	User() *models.User
}

// Coordinator orchestrates order submission.
type Coordinator struct {
	cart    *cart.Store
	api     OrderAPI
	auth    Identity
	rules   pricing.Rules
	metrics *monitoring.Metrics
	now     func() time.Time
	newKey  func() string
	// pending holds the idempotency key per path while an attempt is
	// unresolved, so a retry after a lost response reuses the same key
	// and the backend can deduplicate it.
	pending map[string]string
}

// NewCoordinator wires the checkout dependencies.
func NewCoordinator(c *cart.Store, backend OrderAPI, identity Identity, rules pricing.Rules) *Coordinator {
	return &Coordinator{
		cart:    c,
		api:     backend,
		auth:    identity,
		rules:   rules,
		now:     time.Now,
		newKey:  func() string { return uuid.NewString() },
		pending: make(map[string]string),
	}
}

// WithMetrics records submission outcomes on the given collector.
func (co *Coordinator) WithMetrics(m *monitoring.Metrics) *Coordinator {
	co.metrics = m
	return co
}

// Request carries the caller-supplied checkout fields common to both paths.
type Request struct {
	PaymentMethod string
	Notes         string
	Address       string
	// Delivery, when nil, defaults to today/ASAP.
	Delivery *models.DeliveryInfo
}

// Booking is the single-item path: one normalized line item ordered
// directly, bypassing the cart.
type Booking struct {
	Item     models.LineItem
	Quantity int
}

// SubmitCart submits the entire current cart. On success the cart is
// cleared and the new order id returned; on any failure the cart is
// retained so the user can retry without re-entering items.
func (co *Coordinator) SubmitCart(ctx context.Context, req Request) (string, error) {
	id, err := co.submit(ctx, co.cart.Lines(), req, "cart")
	if err != nil {
		return "", err
	}
	co.cart.Clear()
	return id, nil
}

// SubmitBooking submits a single-item order. The cart is untouched.
func (co *Coordinator) SubmitBooking(ctx context.Context, booking Booking, req Request) (string, error) {
	item := booking.Item
	item.Quantity = booking.Quantity
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return co.submit(ctx, []models.LineItem{item}, req, "booking")
}

func (co *Coordinator) submit(ctx context.Context, lines []models.LineItem, req Request, source string) (string, error) {
	user := co.auth.User()
	if user == nil {
		co.count(source, "unauthenticated")
		return "", ErrUnauthenticated
	}
	if len(lines) == 0 {
		co.count(source, "empty")
		return "", ErrEmptyOrder
	}

	address := req.Address
	if address == "" {
		address = user.Address
	}
	if address == "" {
		address = PlaceholderAddress
	}

	delivery := TodayASAP(co.now())
	if req.Delivery != nil {
		delivery = *req.Delivery
	}

	key, ok := co.pending[source]
	if !ok {
		key = co.newKey()
		co.pending[source] = key
	}

	order := &models.Order{
		Items:    lines,
		Customer: user.Customer(address),
		// Recomputed here rather than trusted from whatever the screen
		// threaded through navigation state.
		TotalAmount:    co.rules.Total(lines),
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
		DeliveryInfo:   delivery,
		IdempotencyKey: key,
	}

	id, err := co.api.CreateOrder(ctx, order)
	if err != nil {
		co.count(source, "error")
		return "", err
	}
	delete(co.pending, source)
	co.count(source, "ok")
	return id, nil
}

func (co *Coordinator) count(source, result string) {
	if co.metrics != nil {
		co.metrics.CountSubmission(source, result)
	}
}

// TodayASAP is the default delivery slot when the caller supplies no
// explicit scheduling.
func TodayASAP(now time.Time) models.DeliveryInfo {
	return models.DeliveryInfo{
		Date:    now.Format("Jan 2, 2006"),
		Time:    "ASAP",
		IsToday: true,
	}
}

// DeliverySlot derives the delivery info for a menu weekday. Ordering for
// the current weekday delivers today at the current time; any other day
// resolves to the next occurrence of that weekday, time "Scheduled".
func DeliverySlot(day string, now time.Time) models.DeliveryInfo {
	today := now.Weekday().String()
	if day == "" || day == today {
		return models.DeliveryInfo{
			Date:    now.Format("Jan 2, 2006"),
			Time:    now.Format("3:04 PM"),
			IsToday: true,
		}
	}

	target := weekdayIndex(day)
	if target < 0 {
		return TodayASAP(now)
	}
	daysAhead := target - int(now.Weekday())
	if daysAhead <= 0 {
		daysAhead += 7
	}
	future := now.AddDate(0, 0, daysAhead)
	return models.DeliveryInfo{
		Date:    future.Format("Jan 2, 2006"),
		Time:    "Scheduled",
		IsToday: false,
	}
}

func weekdayIndex(day string) int {
	for i := time.Sunday; i <= time.Saturday; i++ {
		if i.String() == day {
			return int(i)
		}
	}
	return -1
}
