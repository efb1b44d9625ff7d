package main

import (
	"log/slog"
	"testing"

	"github.com/christopherklint97/mealr/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"false", false},
		{"3", int64(3)},
		{"1", int64(1)},
		{"0.5", 0.5},
		{"redis", "redis"},
		{"09:00", "09:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseConfigValue(tt.in), tt.in)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, parseLevel("chatty"))
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseDateArg(t *testing.T) {
	d, err := parseDateArg("2026-02-23")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-23", d)

	_, err = parseDateArg("")
	assert.Error(t, err)
}

func TestDescribeMeal(t *testing.T) {
	id := int64(3)
	assert.Contains(t, describeMeal(store.MealPlanEntry{RecipeID: &id, RecipeName: "Tacos", Servings: 4}), "Tacos (#3, 4 servings)")
	assert.Contains(t, describeMeal(store.MealPlanEntry{Notes: "Eat out"}), "Eat out")
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"plan", "week"}, {"plan", "set"}, {"plan", "clear"}, {"plan", "export"}, {"plan", "suggest"},
		{"shop", "generate"}, {"shop", "show"}, {"shop", "clear"}, {"shop", "why"}, {"shop", "check"},
		{"recipe", "add"}, {"recipe", "normalize"}, {"recipe", "parse"}, {"recipe", "generate"}, {"recipe", "modify"},
		{"pantry", "expiring"}, {"staple", "need"}, {"price", "import"}, {"store", "delete"},
		{"serve"}, {"watch", "stop"}, {"config", "set"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name(), path)
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://example.com/pasta"))
	assert.True(t, isURL("http://example.com"))
	assert.False(t, isURL("recipes/pasta.txt"))
	assert.False(t, isURL("-"))
}
