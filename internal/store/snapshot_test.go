package store

import (
	"testing"

	"github.com/christopherklint97/mealr/internal/shopping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Generate(t *testing.T) {
	db := openTestDB(t)
	_, err := db.AddStore(&Store{Name: "Costco"})
	require.NoError(t, err)

	chicken, err := db.AddRecipe(&Recipe{
		Name: "Roast Chicken",
		Ingredients: []RecipeIngredient{
			{Name: "Chicken Breast", Quantity: ptr(1.0), Unit: "lb", EstimatedPrice: ptr(3.0)},
			{Name: "salt", Quantity: ptr(1.0), Unit: "tsp"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, db.SetMeal(MealPlanEntry{Date: "2026-02-23", Slot: "Dinner", RecipeID: &chicken, Servings: 2}))
	require.NoError(t, db.SetMeal(MealPlanEntry{Date: "2026-02-25", Slot: "Dinner", RecipeID: &chicken, Servings: 1}))
	require.NoError(t, db.SetMeal(MealPlanEntry{Date: "2026-02-26", Slot: "Lunch", Notes: "Eat out"}))

	_, err = db.AddPantryItem(&PantryItem{Name: "chicken breast", Quantity: ptr(1.0), StoreName: "Costco"})
	require.NoError(t, err)
	_, err = db.AddStaple(&Staple{Name: "Salt"})
	require.NoError(t, err)
	_, err = db.AddStaple(&Staple{Name: "paper towels", NeedToBuy: true, StoreName: "Costco"})
	require.NoError(t, err)
	require.NoError(t, db.UpsertPrice(&KnownPrice{ItemName: "Paper Towels", UnitPrice: 6.49}))

	gen := shopping.NewGenerator(NewSnapshot(db), nil)
	list, err := gen.Generate(shopping.Request{Start: "2026-02-23", End: "2026-03-01", UsePantry: true})
	require.NoError(t, err)

	assert.Equal(t, shopping.List{
		"Costco": {
			{Name: "Chicken Breast", Quantity: 2, Unit: "lb", Cost: ptr(6.0), PriceSource: shopping.SourceRecipe},
			{Name: "paper towels", Quantity: 0, Unit: "", Cost: ptr(6.49), PriceSource: shopping.SourceKnown},
		},
	}, list)

	trace, err := gen.Trace("2026-02-23", "2026-03-01")
	require.NoError(t, err)
	require.Len(t, trace["chicken breast"], 2)
	assert.Equal(t, 2.0, trace["chicken breast"][0].Quantity)
	assert.Equal(t, "Roast Chicken", trace["chicken breast"][0].RecipeName)
}
