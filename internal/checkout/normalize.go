package checkout

import "tiffinbox/internal/models"

// PlaceholderImage stands in for items without artwork.
const PlaceholderImage = "https://via.placeholder.com/150"

// NormalizeItem adapts the loose item values produced at the UI boundary
// into one LineItem shape. Screens hand over either a bare name string or a
// map with id/name/price/image keys; neither form is allowed past this
// function.
func NormalizeItem(value interface{}, itemType models.ItemType, day string) models.LineItem {
	switch v := value.(type) {
	case models.LineItem:
		if v.Type == "" {
			v.Type = itemType
		}
		if v.Day == "" {
			v.Day = day
		}
		if v.Image == "" {
			v.Image = PlaceholderImage
		}
		if v.Quantity < 1 {
			v.Quantity = 1
		}
		return v
	case string:
		return models.LineItem{
			Name:     v,
			Type:     itemType,
			Day:      day,
			Image:    PlaceholderImage,
			Quantity: 1,
		}
	case map[string]interface{}:
		item := models.LineItem{
			ID:       stringField(v, "id"),
			Name:     stringField(v, "name"),
			Type:     itemType,
			Price:    numberField(v, "price"),
			Image:    stringField(v, "image"),
			Day:      day,
			MealType: stringField(v, "mealType"),
			Category: stringField(v, "category"),
			Quantity: int(numberField(v, "quantity")),
		}
		if item.Name == "" {
			item.Name = "Item"
		}
		if item.Image == "" {
			item.Image = PlaceholderImage
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		return item
	default:
		return models.LineItem{
			Name:     "Item",
			Type:     itemType,
			Day:      day,
			Image:    PlaceholderImage,
			Quantity: 1,
		}
	}
}

func stringField(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func numberField(m map[string]interface{}, key string) float64 {
	switch n := m[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
