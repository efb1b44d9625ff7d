package store

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/christopherklint97/mealr/internal/dates"
)

var (
	ErrInvalidSlot     = errors.New("invalid meal slot")
	ErrInvalidServings = errors.New("servings must be positive")
	ErrInvalidDate     = errors.New("invalid date")
)

// MealSlots lists the slots of a day in display order.
var MealSlots = []string{"Breakfast", "Lunch", "Dinner", "Snack"}

// slotOrder sorts rows by MealSlots rather than alphabetically.
const slotOrder = `CASE m.meal_slot WHEN 'Breakfast' THEN 0 WHEN 'Lunch' THEN 1 WHEN 'Dinner' THEN 2 WHEN 'Snack' THEN 3 ELSE 4 END`

// CanonicalSlot returns the slot name matching s case-insensitively.
func CanonicalSlot(s string) (string, error) {
	for _, slot := range MealSlots {
		if strings.EqualFold(strings.TrimSpace(s), slot) {
			return slot, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidSlot)
}

type MealPlanEntry struct {
	ID         int64  `json:"id"`
	Date       string `json:"date"`
	Slot       string `json:"slot"`
	RecipeID   *int64 `json:"recipe_id,omitempty"`
	RecipeName string `json:"recipe_name,omitempty"`
	Servings   int    `json:"servings"`
	Notes      string `json:"notes,omitempty"`
}

// SetMeal upserts the entry for (date, slot). An entry with neither recipe
// nor notes clears the cell instead.
func (db *DB) SetMeal(e MealPlanEntry) error {
	if _, err := time.Parse(dates.Layout, e.Date); err != nil {
		return fmt.Errorf("setting meal: %q: %w", e.Date, ErrInvalidDate)
	}
	slot, err := CanonicalSlot(e.Slot)
	if err != nil {
		return fmt.Errorf("setting meal: %w", err)
	}
	notes := strings.TrimSpace(e.Notes)
	if e.RecipeID == nil && notes == "" {
		return db.ClearMeal(e.Date, slot)
	}
	servings := e.Servings
	if servings == 0 {
		servings = 1
	}
	if servings < 0 {
		return fmt.Errorf("setting meal: %w", ErrInvalidServings)
	}
	if e.RecipeID != nil {
		if _, err := db.GetRecipe(*e.RecipeID); err != nil {
			return fmt.Errorf("setting meal: %w", err)
		}
	}

	_, err = db.Exec(
		`INSERT INTO meal_plan (date, meal_slot, recipe_id, servings, notes) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(date, meal_slot) DO UPDATE SET
		   recipe_id = excluded.recipe_id, servings = excluded.servings, notes = excluded.notes`,
		e.Date, slot, nullInt(e.RecipeID), servings, nullString(notes),
	)
	if err != nil {
		return fmt.Errorf("setting meal: %w", err)
	}
	return nil
}

func (db *DB) ClearMeal(date, slot string) error {
	slot, err := CanonicalSlot(slot)
	if err != nil {
		return fmt.Errorf("clearing meal: %w", err)
	}
	if _, err := db.Exec("DELETE FROM meal_plan WHERE date = ? AND meal_slot = ?", date, slot); err != nil {
		return fmt.Errorf("clearing meal: %w", err)
	}
	return nil
}

// MealsInRange returns entries with start <= date <= end ordered by date
// then slot.
func (db *DB) MealsInRange(start, end string) ([]MealPlanEntry, error) {
	rows, err := db.Query(
		`SELECT m.id, m.date, m.meal_slot, m.recipe_id, r.name, m.servings, m.notes
		 FROM meal_plan m LEFT JOIN recipes r ON r.id = m.recipe_id
		 WHERE m.date >= ? AND m.date <= ?
		 ORDER BY m.date, `+slotOrder,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("querying meal plan: %w", err)
	}
	defer rows.Close()

	var entries []MealPlanEntry
	for rows.Next() {
		var e MealPlanEntry
		var recipeID sql.NullInt64
		var recipeName, notes sql.NullString
		if err := rows.Scan(&e.ID, &e.Date, &e.Slot, &recipeID, &recipeName, &e.Servings, &notes); err != nil {
			return nil, fmt.Errorf("scanning meal: %w", err)
		}
		e.RecipeID = intPtr(recipeID)
		e.RecipeName = recipeName.String
		e.Notes = notes.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Day is one row of a week grid keyed by slot.
type Day struct {
	Date  string                   `json:"date"`
	Meals map[string]MealPlanEntry `json:"meals"`
}

// GetWeek returns the seven days starting at the Monday of the week
// containing t.
func (db *DB) GetWeek(t time.Time) ([]Day, error) {
	start := dates.WeekStart(t)
	from, to := dates.Week(t)
	entries, err := db.MealsInRange(from, to)
	if err != nil {
		return nil, err
	}

	days := make([]Day, 7)
	index := make(map[string]int, 7)
	for i := range days {
		date := start.AddDate(0, 0, i).Format(dates.Layout)
		days[i] = Day{Date: date, Meals: make(map[string]MealPlanEntry)}
		index[date] = i
	}
	for _, e := range entries {
		if i, ok := index[e.Date]; ok && slices.Contains(MealSlots, e.Slot) {
			days[i].Meals[e.Slot] = e
		}
	}
	return days, nil
}
