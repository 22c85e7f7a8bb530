package domain

// Category is one of the fixed expense classifications
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryEntertainment Category = "Entertainment"
	CategoryUtilities     Category = "Utilities"
	CategoryHealth        Category = "Health"
	CategoryShopping      Category = "Shopping"
	CategoryOther         Category = "Other"
)

// Categories lists all valid categories in their canonical order
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryHealth,
	CategoryShopping,
	CategoryOther,
}

// IsValid reports whether c is one of the fixed categories
func (c Category) IsValid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryEntertainment,
		CategoryUtilities, CategoryHealth, CategoryShopping, CategoryOther:
		return true
	}
	return false
}
