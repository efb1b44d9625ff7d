package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/christopherklint97/mealr/internal/dates"
	"github.com/christopherklint97/mealr/internal/store"
)

const suggestPrompt = `You are a meal planning assistant for a household.

Plan Breakfast, Lunch and Dinner for each day from Monday through Sunday.
Prefer saved recipes with higher ratings (4-5). Use recipes tagged breakfast for breakfast slots and respect dietary tags such as vegetarian or gluten-free.
You can suggest saved recipes, simple meals using pantry items, or new ideas.
When you pick a saved recipe, use its name exactly as listed.

Return valid JSON matching the required schema.`

var weekSchema = generateSchema[weekSuggestion]()

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// SuggestWeek asks the model for a week of meals drawn from the saved
// recipes and the pantry.
func SuggestWeek(ctx context.Context, p Completer, recipes []store.Recipe, pantry []store.PantryItem, preferences string) ([]Suggestion, error) {
	var sb strings.Builder
	sb.WriteString("My pantry, fridge and freezer contain:\n")
	sb.WriteString(pantrySummary(pantry))
	sb.WriteString("\n\nMy saved recipes include:\n")
	sb.WriteString(recipeSummary(recipes))
	if preferences = strings.TrimSpace(preferences); preferences != "" {
		sb.WriteString("\n\nPreferences or constraints: " + preferences)
	}

	raw, err := p.Complete(ctx, Request{
		Name:        "week_plan",
		Description: "Suggested meals for one week",
		System:      suggestPrompt,
		Prompt:      sb.String(),
		Schema:      weekSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("suggesting week: %w", err)
	}

	var week weekSuggestion
	if err := json.Unmarshal([]byte(raw), &week); err != nil {
		return nil, fmt.Errorf("suggesting week: parsing answer: %w (raw: %s)", err, truncateStr(raw, 1000))
	}
	return week.Meals, nil
}

// PlanEntries turns suggestions into meal plan entries for the week that
// starts on monday. A meal named like a saved recipe (ignoring case) plans
// that recipe; any other meal is kept as a note. Every entry is one
// serving. Suggestions with an unknown day or slot, or no meal, are dropped.
func PlanEntries(monday time.Time, suggestions []Suggestion, recipes []store.Recipe) []store.MealPlanEntry {
	byName := make(map[string]store.Recipe, len(recipes))
	for _, r := range recipes {
		key := strings.ToLower(strings.TrimSpace(r.Name))
		if _, dup := byName[key]; !dup {
			byName[key] = r
		}
	}

	var out []store.MealPlanEntry
	for _, s := range suggestions {
		day := weekdayIndex(s.Day)
		meal := strings.TrimSpace(s.Meal)
		slot, err := store.CanonicalSlot(s.Slot)
		if day < 0 || err != nil || meal == "" {
			continue
		}
		e := store.MealPlanEntry{
			Date:     monday.AddDate(0, 0, day).Format(dates.Layout),
			Slot:     slot,
			Servings: 1,
		}
		if r, ok := byName[strings.ToLower(meal)]; ok {
			id := r.ID
			e.RecipeID = &id
			e.RecipeName = r.Name
		} else {
			e.Notes = meal
		}
		out = append(out, e)
	}
	return out
}

func weekdayIndex(day string) int {
	for i, d := range weekdays {
		if strings.EqualFold(strings.TrimSpace(day), d) {
			return i
		}
	}
	return -1
}

// recipeSummary lists recipes as "- name [tags] (rating: N/5)".
func recipeSummary(recipes []store.Recipe) string {
	if len(recipes) == 0 {
		return "None saved yet"
	}
	lines := make([]string, 0, len(recipes))
	for _, r := range recipes {
		line := "- " + r.Name
		if r.Tags != "" {
			line += " [" + r.Tags + "]"
		}
		if r.Rating != nil {
			line += fmt.Sprintf(" (rating: %d/5)", *r.Rating)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
