package ai

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/mealr/internal/store"
)

var savedRecipes = []store.Recipe{
	{ID: 7, Name: "Roast Chicken", Tags: "dinner", Rating: ptr(int64(5))},
	{ID: 9, Name: "Overnight Oats", Tags: "breakfast"},
}

func TestSuggestWeek_ClaudeCLI(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	cli := NewClaudeCLI("haiku", nil)
	cli.Binary = fakeClaude(t, `printf '%s\n' "$@" > `+argsFile+`
cat <<'JSON'
{"type":"result","structured_output":{"meals":[{"day":"Monday","slot":"Dinner","meal":"Roast Chicken","notes":""},{"day":"Tuesday","slot":"Breakfast","meal":"Scrambled eggs","notes":"Use pantry eggs"}]}}
JSON
`)

	got, err := SuggestWeek(context.Background(), cli, savedRecipes, []store.PantryItem{{Name: "Eggs", Quantity: ptr(12.0)}}, "no fish")
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{
		{Day: "Monday", Slot: "Dinner", Meal: "Roast Chicken"},
		{Day: "Tuesday", Slot: "Breakfast", Meal: "Scrambled eggs", Notes: "Use pantry eggs"},
	}, got)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Contains(t, string(args), "- Roast Chicken [dinner] (rating: 5/5)")
	assert.Contains(t, string(args), "- Overnight Oats [breakfast]")
	assert.Contains(t, string(args), "Eggs (qty: 12)")
	assert.Contains(t, string(args), "no fish")
	assert.Contains(t, string(args), `"meals"`)
	assert.Contains(t, string(args), `"Sunday"`)
}

func TestSuggestWeek_Failure(t *testing.T) {
	_, err := SuggestWeek(context.Background(), &stubCompleter{answer: "```json\n[]\n```"}, nil, nil, "")
	assert.ErrorContains(t, err, "parsing answer")

	stub := &stubCompleter{answer: `{"meals":[]}`}
	got, err := SuggestWeek(context.Background(), stub, nil, nil, "")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Contains(t, stub.reqs[0].Prompt, "None saved yet")
	assert.Contains(t, stub.reqs[0].Prompt, "Pantry is empty.")
}

func TestPlanEntries(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	entries := PlanEntries(monday, []Suggestion{
		{Day: "Monday", Slot: "Dinner", Meal: "roast chicken "},
		{Day: "sunday", Slot: "breakfast", Meal: "Pancakes", Notes: "use eggs"},
		{Day: "Funday", Slot: "Lunch", Meal: "Soup"},
		{Day: "Tuesday", Slot: "Brunch", Meal: "Soup"},
		{Day: "Tuesday", Slot: "Lunch", Meal: "  "},
	}, savedRecipes)

	require.Len(t, entries, 2)
	assert.Equal(t, store.MealPlanEntry{
		Date: "2026-03-02", Slot: "Dinner", RecipeID: ptr(int64(7)), RecipeName: "Roast Chicken", Servings: 1,
	}, entries[0])
	assert.Equal(t, store.MealPlanEntry{
		Date: "2026-03-08", Slot: "Breakfast", Servings: 1, Notes: "Pancakes",
	}, entries[1])
}
