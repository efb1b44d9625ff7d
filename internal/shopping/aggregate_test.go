package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKey(t *testing.T) {
	assert.Equal(t, Key{Name: "chicken breast", Unit: "lb"}, NewKey("  Chicken Breast ", " LB"))
	assert.Equal(t, Key{Name: "salt"}, NewKey("SALT", ""))
}

func TestAggregate(t *testing.T) {
	meals := []PlannedMeal{
		{RecipeID: ptr(int64(1)), Servings: 2, Ingredients: []Ingredient{
			{Name: "Onion", Quantity: ptr(1.0)},
			{Name: "rice", Quantity: ptr(0.5), Unit: "Cup", EstimatedPrice: ptr(0.40)},
		}},
		{Servings: 4, Ingredients: []Ingredient{{Name: "onion", Quantity: ptr(10.0)}}},
		{RecipeID: ptr(int64(2)), Servings: 1, Ingredients: []Ingredient{
			{Name: "RICE", Quantity: ptr(1.0), Unit: "cup", EstimatedPrice: ptr(0.90)},
			{Name: "onion ", Quantity: ptr(0.5)},
		}},
	}

	d := Aggregate(meals)

	assert.Equal(t, []Key{{Name: "onion"}, {Name: "rice", Unit: "cup"}}, d.Keys)
	assert.Equal(t, 2.5, d.Needed[Key{Name: "onion"}])
	assert.Equal(t, 2.0, d.Needed[Key{Name: "rice", Unit: "cup"}])
	assert.Equal(t, map[Key]float64{{Name: "rice", Unit: "cup"}: 0.40}, d.RecipePrices)
}

func TestAggregate_Empty(t *testing.T) {
	assert.True(t, Aggregate(nil).Empty())
	assert.True(t, Aggregate([]PlannedMeal{{Notes: "Eat out", Servings: 1}}).Empty())
}

func TestPriceResolver(t *testing.T) {
	r := NewPriceResolver(
		PriceSource{Name: "a", Lookup: ByName(map[string]float64{"milk": 1})},
		PriceSource{Name: "b", Lookup: ByKey(map[Key]float64{{Name: "eggs", Unit: "dozen"}: 3})},
	)

	p, src, ok := r.Resolve(Key{Name: "milk", Unit: "gallon"})
	assert.True(t, ok)
	assert.Equal(t, 1.0, p)
	assert.Equal(t, "a", src)

	p, src, ok = r.Resolve(Key{Name: "eggs", Unit: "dozen"})
	assert.True(t, ok)
	assert.Equal(t, 3.0, p)
	assert.Equal(t, "b", src)

	_, _, ok = r.Resolve(Key{Name: "eggs", Unit: "each"})
	assert.False(t, ok)
}
