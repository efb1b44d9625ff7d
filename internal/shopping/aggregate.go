package shopping

// Demand is the summed ingredient requirement over a set of planned meals.
// Keys keeps first-seen order so that later passes are deterministic.
type Demand struct {
	Keys         []Key
	Needed       map[Key]float64
	RecipePrices map[Key]float64
}

// Aggregate sums servings-scaled ingredient quantities per normalized key.
// Meals without a recipe are skipped. The first non-nil estimated price seen
// for a key is kept as its recipe price.
func Aggregate(meals []PlannedMeal) Demand {
	d := Demand{
		Needed:       make(map[Key]float64),
		RecipePrices: make(map[Key]float64),
	}

	for _, meal := range meals {
		if meal.RecipeID == nil {
			continue
		}
		for _, ing := range meal.Ingredients {
			key, qty := ing.Effective()
			if _, seen := d.Needed[key]; !seen {
				d.Keys = append(d.Keys, key)
			}
			d.Needed[key] += qty * float64(meal.Servings)

			if ing.EstimatedPrice != nil {
				if _, ok := d.RecipePrices[key]; !ok {
					d.RecipePrices[key] = *ing.EstimatedPrice
				}
			}
		}
	}

	return d
}

// Empty reports whether no recipe-backed demand was found.
func (d Demand) Empty() bool {
	return len(d.Keys) == 0
}
