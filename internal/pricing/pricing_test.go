package pricing

import (
	"testing"

	"tiffinbox/internal/models"
)

func lines(prices ...float64) []models.LineItem {
	items := make([]models.LineItem, len(prices))
	for i, p := range prices {
		items[i] = models.LineItem{
			ID:       "item",
			Type:     models.ItemTypeSingle,
			Price:    p,
			Quantity: 1,
		}
	}
	return items
}

func TestSubtotal(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name  string
		lines []models.LineItem
		want  float64
	}{
		{name: "empty", lines: nil, want: 0},
		{name: "singleLine", lines: lines(150), want: 150},
		{name: "multipleLines", lines: lines(150, 80, 20), want: 250},
		{
			name: "quantityMultiplies",
			lines: []models.LineItem{
				{ID: "p1", Type: models.ItemTypePackage, Price: 150, Quantity: 3},
			},
			want: 450,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.Subtotal(tt.lines); got != tt.want {
				t.Errorf("Subtotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFee(t *testing.T) {
	rules := DefaultRules()

	if got := rules.Fee(nil); got != 0 {
		t.Errorf("Fee(empty) = %v, want 0", got)
	}
	if got := rules.Fee(lines(10)); got != 20 {
		t.Errorf("Fee(non-empty) = %v, want 20", got)
	}
}

func TestDiscountBoundary(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name     string
		subtotal float64
		want     float64
	}{
		{name: "belowThreshold", subtotal: 199.99, want: 0},
		{name: "exactlyThreshold", subtotal: 200, want: 0},
		{name: "justAboveThreshold", subtotal: 200.01, want: 30},
		{name: "wellAboveThreshold", subtotal: 500, want: 30},
		{name: "zero", subtotal: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.Discount(tt.subtotal); got != tt.want {
				t.Errorf("Discount(%v) = %v, want %v", tt.subtotal, got, tt.want)
			}
		})
	}
}

func TestTotalIdentity(t *testing.T) {
	rules := DefaultRules()

	carts := [][]models.LineItem{
		nil,
		lines(50),
		lines(100, 100),
		lines(100, 100, 0.01),
		{{ID: "p1", Type: models.ItemTypePackage, Price: 150, Quantity: 2}},
	}

	for _, cart := range carts {
		subtotal := rules.Subtotal(cart)
		want := subtotal + rules.Fee(cart) - rules.Discount(subtotal)
		if got := rules.Total(cart); got != want {
			t.Errorf("Total() = %v, want subtotal+fee-discount = %v", got, want)
		}
	}
}

func TestTotalEmptyCartIsZero(t *testing.T) {
	rules := DefaultRules()
	if got := rules.Total(nil); got != 0 {
		t.Errorf("Total(empty) = %v, want 0", got)
	}
}

func TestQuote(t *testing.T) {
	rules := DefaultRules()

	// Two units of a 150 package: subtotal 300, discount kicks in.
	cart := []models.LineItem{
		{ID: "p1", Type: models.ItemTypePackage, Price: 150, Quantity: 2},
	}

	got := rules.Quote(cart)
	want := Breakdown{Subtotal: 300, DeliveryFee: 20, Discount: 30, Total: 290}
	if got != want {
		t.Errorf("Quote() = %+v, want %+v", got, want)
	}
}

func TestQuoteEmpty(t *testing.T) {
	rules := DefaultRules()
	if got := rules.Quote(nil); got != (Breakdown{}) {
		t.Errorf("Quote(empty) = %+v, want all zeros", got)
	}
}

func TestCustomRules(t *testing.T) {
	rules := Rules{DeliveryFee: 10, DiscountThreshold: 100, DiscountAmount: 15}

	got := rules.Quote(lines(60, 60))
	want := Breakdown{Subtotal: 120, DeliveryFee: 10, Discount: 15, Total: 115}
	if got != want {
		t.Errorf("Quote() with custom rules = %+v, want %+v", got, want)
	}
}
