package store

import "github.com/christopherklint97/mealr/internal/shopping"

// Snapshot exposes the database as the read-only view a shopping list is
// generated from.
type Snapshot struct {
	db *DB
}

func NewSnapshot(db *DB) *Snapshot {
	return &Snapshot{db: db}
}

func (s *Snapshot) PlannedMeals(start, end string) ([]shopping.PlannedMeal, error) {
	entries, err := s.db.MealsInRange(start, end)
	if err != nil {
		return nil, err
	}

	ingredients := make(map[int64][]shopping.Ingredient)
	meals := make([]shopping.PlannedMeal, 0, len(entries))
	for _, e := range entries {
		m := shopping.PlannedMeal{
			Date:       e.Date,
			Slot:       e.Slot,
			RecipeID:   e.RecipeID,
			RecipeName: e.RecipeName,
			Servings:   e.Servings,
			Notes:      e.Notes,
		}
		if e.RecipeID != nil {
			id := *e.RecipeID
			ings, ok := ingredients[id]
			if !ok {
				rows, err := s.db.queryIngredients("WHERE recipe_id = ? ORDER BY id", id)
				if err != nil {
					return nil, err
				}
				ings = toShoppingIngredients(rows)
				ingredients[id] = ings
			}
			m.Ingredients = ings
		}
		meals = append(meals, m)
	}
	return meals, nil
}

func toShoppingIngredients(rows []RecipeIngredient) []shopping.Ingredient {
	out := make([]shopping.Ingredient, len(rows))
	for i, r := range rows {
		out[i] = shopping.Ingredient{
			Name:           r.Name,
			Quantity:       r.Quantity,
			Unit:           r.Unit,
			EstimatedPrice: r.EstimatedPrice,
			ShoppingName:   r.ShoppingName,
			ShoppingQty:    r.ShoppingQty,
			ShoppingUnit:   r.ShoppingUnit,
		}
	}
	return out
}

func (s *Snapshot) PantryItems() ([]shopping.PantryItem, error) {
	rows, err := s.db.ListPantry()
	if err != nil {
		return nil, err
	}
	items := make([]shopping.PantryItem, len(rows))
	for i, p := range rows {
		items[i] = shopping.PantryItem{
			Name:           p.Name,
			Quantity:       p.Quantity,
			EstimatedPrice: p.EstimatedPrice,
			StoreName:      p.StoreName,
		}
	}
	return items, nil
}

func (s *Snapshot) Staples() ([]shopping.Staple, error) {
	rows, err := s.db.ListStaples()
	if err != nil {
		return nil, err
	}
	staples := make([]shopping.Staple, len(rows))
	for i, st := range rows {
		staples[i] = shopping.Staple{
			Name:      st.Name,
			Category:  st.Category,
			StoreName: st.StoreName,
			NeedToBuy: st.NeedToBuy,
		}
	}
	return staples, nil
}

func (s *Snapshot) KnownPrices() ([]shopping.KnownPrice, error) {
	rows, err := s.db.ListPrices()
	if err != nil {
		return nil, err
	}
	prices := make([]shopping.KnownPrice, len(rows))
	for i, p := range rows {
		prices[i] = shopping.KnownPrice{ItemName: p.ItemName, UnitPrice: p.UnitPrice}
	}
	return prices, nil
}
