package models

import "encoding/json"

// ItemType distinguishes the two kinds of sellable SKUs.
type ItemType string

const (
	ItemTypePackage ItemType = "package"
	ItemTypeSingle  ItemType = "single"
)

// ItemKey identifies a line item for cart merge purposes.
type ItemKey struct {
	ID   string
	Type ItemType
}

// LineItem is one priced, quantified entry in a cart or order.
// A package meal and an a-la-carte single share the same shape.
type LineItem struct {
	ID       string   `json:"id"`
	Type     ItemType `json:"type"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Quantity int      `json:"quantity"`
	Image    string   `json:"image,omitempty"`

	// Package metadata
	Day      string          `json:"day,omitempty"`
	MealType string          `json:"mealType,omitempty"`
	Contents []MealComponent `json:"packageContents,omitempty"`

	// Single metadata
	Category string `json:"category,omitempty"`
}

// Key returns the merge identity for the item.
func (li LineItem) Key() ItemKey {
	return ItemKey{ID: li.ID, Type: li.Type}
}

// LineTotal is the item's contribution to the cart subtotal.
func (li LineItem) LineTotal() float64 {
	return li.Price * float64(li.Quantity)
}

// MealComponent is one named sub-item of a package meal. The backend
// serializes components either as a bare string or as an object with
// name/image, so decoding normalizes both forms here instead of letting
// the union leak into domain logic.
type MealComponent struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// UnmarshalJSON accepts both `"Rice"` and `{"name":"Rice","image":"..."}`.
func (mc *MealComponent) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		mc.Name = name
		mc.Image = ""
		return nil
	}

	type component MealComponent
	var obj component
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*mc = MealComponent(obj)
	return nil
}
