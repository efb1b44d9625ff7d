package shopping

import "slices"

// Store buckets used when no preferred store is known.
const (
	NoStoreAssigned = "No Store Assigned"
	StaplesBucket   = "Staples"
)

// Ingredient carries the shopping-relevant fields of a recipe ingredient.
// Empty strings and nil pointers both mean "absent".
type Ingredient struct {
	Name           string
	Quantity       *float64
	Unit           string
	EstimatedPrice *float64
	ShoppingName   string
	ShoppingQty    *float64
	ShoppingUnit   string
}

// Effective returns the aggregation key and per-serving quantity, preferring
// the normalized shopping form over the raw recipe line.
func (i Ingredient) Effective() (Key, float64) {
	name := i.ShoppingName
	if name == "" {
		name = i.Name
	}
	unit := i.ShoppingUnit
	if unit == "" {
		unit = i.Unit
	}

	var qty float64
	switch {
	case i.ShoppingQty != nil:
		qty = *i.ShoppingQty
	case i.Quantity != nil:
		qty = *i.Quantity
	}
	return NewKey(name, unit), qty
}

// PlannedMeal is one meal-plan cell in the requested range. RecipeID is nil
// for notes-only entries, which contribute no demand.
type PlannedMeal struct {
	Date        string
	Slot        string
	RecipeID    *int64
	RecipeName  string
	Servings    int
	Notes       string
	Ingredients []Ingredient
}

type PantryItem struct {
	Name           string
	Quantity       *float64
	EstimatedPrice *float64
	StoreName      string
}

type Staple struct {
	Name      string
	Category  string
	StoreName string
	NeedToBuy bool
}

type KnownPrice struct {
	ItemName  string
	UnitPrice float64
}

// LineItem is one row of a generated shopping list.
type LineItem struct {
	Name        string   `json:"name"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	Cost        *float64 `json:"cost,omitempty"`
	PriceSource string   `json:"price_source,omitempty"`
}

// List maps a store display name to its sorted line items.
type List map[string][]LineItem

// Stores returns the store names in rendering order.
func (l List) Stores() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the total number of line items across stores.
func (l List) Len() int {
	n := 0
	for _, items := range l {
		n += len(items)
	}
	return n
}

// Request selects the range and pantry behavior of one generation.
type Request struct {
	Start     string
	End       string
	UsePantry bool
}
