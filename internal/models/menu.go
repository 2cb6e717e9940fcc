package models

// PackageMeal is a bundled meal for a weekday, priced as one SKU.
type PackageMeal struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       float64         `json:"price"`
	Image       string          `json:"image,omitempty"`
	Day         string          `json:"day"`
	MealType    string          `json:"mealType"`
	Contents    []MealComponent `json:"contents,omitempty"`
}

// SingleMeal is an a-la-carte catalog item.
type SingleMeal struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category"`
	Visible     bool    `json:"visible"`
}

// LineItem converts a package meal into a cart entry with the given quantity.
func (p PackageMeal) LineItem(quantity int) LineItem {
	return LineItem{
		ID:       p.ID,
		Type:     ItemTypePackage,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: quantity,
		Image:    p.Image,
		Day:      p.Day,
		MealType: p.MealType,
		Contents: p.Contents,
	}
}

// LineItem converts a single meal into a cart entry with the given quantity.
func (s SingleMeal) LineItem(quantity int) LineItem {
	return LineItem{
		ID:       s.ID,
		Type:     ItemTypeSingle,
		Name:     s.Name,
		Price:    s.Price,
		Quantity: quantity,
		Image:    s.Image,
		Category: s.Category,
	}
}
