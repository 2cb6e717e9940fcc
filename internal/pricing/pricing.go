// Package pricing computes cart totals. All functions are pure; the cart
// store and the checkout coordinator both read prices through this package
// so a total is never trusted from stale UI state.
package pricing

import "tiffinbox/internal/models"

// Rules holds the pricing constants. Amounts are in rupees.
type Rules struct {
	DeliveryFee       float64 `yaml:"delivery_fee"`
	DiscountThreshold float64 `yaml:"discount_threshold"`
	DiscountAmount    float64 `yaml:"discount_amount"`
}

// DefaultRules matches the production backend: flat 20 delivery fee and a
// flat 30 discount once the subtotal exceeds 200.
func DefaultRules() Rules {
	return Rules{
		DeliveryFee:       20,
		DiscountThreshold: 200,
		DiscountAmount:    30,
	}
}

// Breakdown is the derived price summary for a cart or a single booking.
// Never stored; recomputed at read time.
type Breakdown struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// Subtotal sums price x quantity over the lines. Zero for an empty cart.
func (r Rules) Subtotal(lines []models.LineItem) float64 {
	var sum float64
	for _, line := range lines {
		sum += line.LineTotal()
	}
	return sum
}

// Fee returns the flat delivery fee, waived for an empty cart.
func (r Rules) Fee(lines []models.LineItem) float64 {
	if len(lines) == 0 {
		return 0
	}
	return r.DeliveryFee
}

// Discount returns the flat discount. The threshold is strict: a subtotal
// of exactly 200 earns nothing.
func (r Rules) Discount(subtotal float64) float64 {
	if subtotal > r.DiscountThreshold {
		return r.DiscountAmount
	}
	return 0
}

// Total is subtotal + delivery fee - discount.
func (r Rules) Total(lines []models.LineItem) float64 {
	subtotal := r.Subtotal(lines)
	return subtotal + r.Fee(lines) - r.Discount(subtotal)
}

// Quote computes the full breakdown in one pass.
func (r Rules) Quote(lines []models.LineItem) Breakdown {
	subtotal := r.Subtotal(lines)
	fee := r.Fee(lines)
	discount := r.Discount(subtotal)
	return Breakdown{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Discount:    discount,
		Total:       subtotal + fee - discount,
	}
}
