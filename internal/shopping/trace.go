package shopping

import "fmt"

// Source records one planned meal that contributes to an ingredient.
type Source struct {
	RecipeID   int64   `json:"recipe_id"`
	RecipeName string  `json:"recipe_name"`
	Date       string  `json:"date"`
	Slot       string  `json:"slot"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
}

// Trace maps a normalized ingredient name to the meals that need it.
type Trace map[string][]Source

// BuildTrace attributes servings-scaled ingredient quantities to their meals.
func BuildTrace(meals []PlannedMeal) Trace {
	trace := make(Trace)
	for _, meal := range meals {
		if meal.RecipeID == nil {
			continue
		}
		name := meal.RecipeName
		if name == "" {
			name = "Unknown Recipe"
		}
		for _, ing := range meal.Ingredients {
			key, qty := ing.Effective()
			trace[key.Name] = append(trace[key.Name], Source{
				RecipeID:   *meal.RecipeID,
				RecipeName: name,
				Date:       meal.Date,
				Slot:       meal.Slot,
				Quantity:   qty * float64(meal.Servings),
				Unit:       key.Unit,
			})
		}
	}
	return trace
}

// Trace reads the meal plan for [start, end] and builds its ingredient trace.
func (g *Generator) Trace(start, end string) (Trace, error) {
	meals, err := g.snap.PlannedMeals(start, end)
	if err != nil {
		return nil, fmt.Errorf("reading meal plan: %w", err)
	}
	return BuildTrace(meals), nil
}

// Build generates the list for req together with its trace, ready to cache.
func (g *Generator) Build(req Request) (Bundle, error) {
	list, err := g.Generate(req)
	if err != nil {
		return Bundle{}, err
	}
	trace, err := g.Trace(req.Start, req.End)
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{
		List:      list,
		Trace:     trace,
		Start:     req.Start,
		End:       req.End,
		UsePantry: req.UsePantry,
	}, nil
}
