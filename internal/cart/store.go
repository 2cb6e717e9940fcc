// Package cart owns the session-local cart. The cart is an insertion-ordered
// sequence of line items with unique (id, type) keys; it is never persisted
// and a fresh one begins after every successful checkout.
package cart

import (
	"sync"

	"tiffinbox/internal/models"
	"tiffinbox/internal/monitoring"
	"tiffinbox/internal/pricing"
)

// Store holds the mutable cart. All mutations are atomic; readers get
// copies, never the backing slice.
type Store struct {
	mu      sync.Mutex
	lines   []models.LineItem
	rules   pricing.Rules
	metrics *monitoring.Metrics
}

// NewStore creates an empty cart priced under the given rules.
func NewStore(rules pricing.Rules) *Store {
	return &Store{rules: rules}
}

// WithMetrics records mutation counts on the given collector.
func (s *Store) WithMetrics(m *monitoring.Metrics) *Store {
	s.metrics = m
	return s
}

func (s *Store) count(op string) {
	if s.metrics != nil {
		s.metrics.CountCartOp(op)
	}
}

// Add merges an item into the cart. An existing (id, type) entry has its
// quantity incremented and keeps its first-seen price and metadata; a new
// entry is appended. Non-positive quantities are clamped to 1.
func (s *Store) Add(item models.LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	s.count("add")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Key() == item.Key() {
			s.lines[i].Quantity += item.Quantity
			return
		}
	}
	s.lines = append(s.lines, item)
}

// Remove deletes the matching entry. Absent keys are a no-op.
func (s *Store) Remove(id string, itemType models.ItemType) {
	s.count("remove")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(models.ItemKey{ID: id, Type: itemType})
}

func (s *Store) remove(key models.ItemKey) {
	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity exactly. A quantity below 1 removes the
// item instead of leaving a zero-quantity entry.
func (s *Store) UpdateQuantity(id string, itemType models.ItemType, quantity int) {
	s.count("update_quantity")
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.ItemKey{ID: id, Type: itemType}
	if quantity < 1 {
		s.remove(key)
		return
	}
	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines[i].Quantity = quantity
			return
		}
	}
}

// Increment adds one to the item's quantity. No-op if the key is absent.
func (s *Store) Increment(id string, itemType models.ItemType) {
	s.count("increment")
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.ItemKey{ID: id, Type: itemType}
	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines[i].Quantity++
			return
		}
	}
}

// Decrement subtracts one from the item's quantity, removing the item when
// it would drop below 1. No-op if the key is absent.
func (s *Store) Decrement(id string, itemType models.ItemType) {
	s.count("decrement")
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.ItemKey{ID: id, Type: itemType}
	for i := range s.lines {
		if s.lines[i].Key() == key {
			if s.lines[i].Quantity <= 1 {
				s.remove(key)
			} else {
				s.lines[i].Quantity--
			}
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.count("clear")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.LineItem, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of distinct SKUs in the cart.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// ItemCount returns the sum of quantities across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Subtotal prices the current cart lines.
func (s *Store) Subtotal() float64 {
	return s.rules.Subtotal(s.Lines())
}

// DeliveryFee returns the fee for the current cart.
func (s *Store) DeliveryFee() float64 {
	return s.rules.Fee(s.Lines())
}

// Discount returns the discount earned by the current subtotal.
func (s *Store) Discount() float64 {
	return s.rules.Discount(s.Subtotal())
}

// Total returns the payable amount for the current cart.
func (s *Store) Total() float64 {
	return s.rules.Total(s.Lines())
}

// Breakdown returns the full derived price summary.
func (s *Store) Breakdown() pricing.Breakdown {
	return s.rules.Quote(s.Lines())
}
