package devserver

import "tiffinbox/internal/models"

// seedPackages is the weekly tiffin menu served by the stub.
func seedPackages() []models.PackageMeal {
	return []models.PackageMeal{
		{
			ID: "pkg-mon-lunch", Name: "Monday Veg Thali", Price: 150,
			Day: "Monday", MealType: "lunch",
			Contents: []models.MealComponent{
				{Name: "Jeera Rice"}, {Name: "Dal Tadka"}, {Name: "Mixed Veg Sabzi"}, {Name: "Roti (3)"},
			},
		},
		{
			ID: "pkg-mon-dinner", Name: "Monday Light Dinner", Price: 120,
			Day: "Monday", MealType: "dinner",
			Contents: []models.MealComponent{
				{Name: "Khichdi"}, {Name: "Kadhi"}, {Name: "Papad"},
			},
		},
		{
			ID: "pkg-tue-lunch", Name: "Tuesday Punjabi Thali", Price: 180,
			Day: "Tuesday", MealType: "lunch",
			Contents: []models.MealComponent{
				{Name: "Rajma"}, {Name: "Steamed Rice"}, {Name: "Paneer Bhurji"}, {Name: "Roti (3)"},
			},
		},
		{
			ID: "pkg-wed-lunch", Name: "Wednesday South Special", Price: 160,
			Day: "Wednesday", MealType: "lunch",
			Contents: []models.MealComponent{
				{Name: "Lemon Rice"}, {Name: "Sambar"}, {Name: "Beetroot Poriyal"}, {Name: "Curd"},
			},
		},
		{
			ID: "pkg-thu-breakfast", Name: "Thursday Breakfast Box", Price: 90,
			Day: "Thursday", MealType: "breakfast",
			Contents: []models.MealComponent{
				{Name: "Poha"}, {Name: "Boiled Eggs (2)"}, {Name: "Masala Chai"},
			},
		},
		{
			ID: "pkg-fri-lunch", Name: "Friday Feast Thali", Price: 220,
			Day: "Friday", MealType: "lunch",
			Contents: []models.MealComponent{
				{Name: "Veg Biryani"}, {Name: "Raita"}, {Name: "Gulab Jamun"},
			},
		},
	}
}

// seedSingles is the a-la-carte catalog.
func seedSingles() []models.SingleMeal {
	return []models.SingleMeal{
		{ID: "sgl-chai", Name: "Masala Chai", Price: 20, Category: "Beverages", Visible: true},
		{ID: "sgl-lassi", Name: "Sweet Lassi", Price: 40, Category: "Beverages", Visible: true},
		{ID: "sgl-samosa", Name: "Samosa (2pc)", Price: 30, Category: "Snacks", Visible: true},
		{ID: "sgl-pakora", Name: "Onion Pakora", Price: 45, Category: "Snacks", Visible: true},
		{ID: "sgl-salad", Name: "Organic Salad Bowl", Price: 170, Category: "Healthy", Visible: true},
		{ID: "sgl-curd-rice", Name: "Curd Rice", Price: 80, Category: "Rice Bowls", Visible: true},
		{ID: "sgl-test-item", Name: "Kitchen Test Item", Price: 1, Category: "Internal", Visible: false},
	}
}

// seedRider is assigned to orders once they are picked up.
func seedRider() models.Rider {
	return models.Rider{Name: "Rajesh Kumar", Phone: "+91 9876543210", Vehicle: "Honda Activa"}
}
