package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/christopherklint97/mealr/internal/ai"
	"github.com/christopherklint97/mealr/internal/calendar"
	"github.com/christopherklint97/mealr/internal/dates"
	"github.com/christopherklint97/mealr/internal/store"
	"github.com/christopherklint97/mealr/internal/tui"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "View and edit the weekly meal plan",
}

var planWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the meal plan for a week",
	Args:  cobra.NoArgs,
	RunE:  runPlanWeek,
}

var planSetCmd = &cobra.Command{
	Use:   "set DATE SLOT",
	Short: "Plan a recipe or a note for one meal slot",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlanSet,
}

var planClearCmd = &cobra.Command{
	Use:   "clear DATE SLOT",
	Short: "Remove whatever is planned for one meal slot",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlanClear,
}

var planExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a week of meals as an iCalendar file",
	Args:  cobra.NoArgs,
	RunE:  runPlanExport,
}

var planSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Use AI to suggest a week of meals from your recipes and pantry",
	Long: `Asks the configured AI provider for breakfast, lunch and dinner for each day
of a week. Suggestions are printed; --apply writes them into the plan, replacing
whatever those slots held. Meals named like a saved recipe plan that recipe;
anything else is planned as a note.`,
	Args: cobra.NoArgs,
	RunE: runPlanSuggest,
}

func init() {
	planWeekCmd.Flags().String("week", "", "Any date in the week to show (default: this week)")

	planSetCmd.Flags().Int64("recipe", 0, "Recipe ID")
	planSetCmd.Flags().Int("servings", 1, "Number of servings")
	planSetCmd.Flags().String("notes", "", "Free-text note, e.g. \"Eat out\"")

	planExportCmd.Flags().String("week", "", "Any date in the week to export (default: this week)")
	planExportCmd.Flags().StringP("out", "o", "", "Write to FILE instead of stdout")

	planCmd.AddCommand(planWeekCmd)
	planCmd.AddCommand(planSetCmd)
	planCmd.AddCommand(planClearCmd)
	planCmd.AddCommand(planExportCmd)

	planSuggestCmd.Flags().String("week", "", "Any date in the week to plan (default: this week)")
	planSuggestCmd.Flags().String("prefs", "", "Preferences or constraints, e.g. \"no fish, quick lunches\"")
	planSuggestCmd.Flags().Bool("apply", false, "Write the suggestions into the meal plan")
	planCmd.AddCommand(planSuggestCmd)
}

// parseDateArg resolves user date text to YYYY-MM-DD.
func parseDateArg(s string) (string, error) {
	t, err := dates.Parse(s, time.Now())
	if err != nil {
		return "", err
	}
	return t.Format(dates.Layout), nil
}

// weekAnchor returns the day whose week the --week flag selects.
func weekAnchor(cmd *cobra.Command) (time.Time, error) {
	now := time.Now()
	week, _ := cmd.Flags().GetString("week")
	if week == "" {
		return now, nil
	}
	return dates.Parse(week, now)
}

func runPlanWeek(cmd *cobra.Command, args []string) error {
	anchor, err := weekAnchor(cmd)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	days, err := a.db.GetWeek(anchor)
	if err != nil {
		return fmt.Errorf("fetching week: %w", err)
	}

	for _, day := range days {
		t, _ := time.Parse(dates.Layout, day.Date)
		fmt.Println(tui.Heading(fmt.Sprintf("%s %s", t.Format("Mon"), day.Date)))
		for _, slot := range store.MealSlots {
			e, ok := day.Meals[slot]
			if !ok {
				fmt.Printf("  %-10s %s\n", slot, tui.Dim("-"))
				continue
			}
			fmt.Printf("  %-10s %s\n", slot, describeMeal(e))
		}
	}
	return nil
}

func describeMeal(e store.MealPlanEntry) string {
	var s string
	switch {
	case e.RecipeID != nil && e.RecipeName != "":
		s = fmt.Sprintf("%s (#%d, %d servings)", e.RecipeName, *e.RecipeID, e.Servings)
	case e.RecipeID != nil:
		s = fmt.Sprintf("recipe #%d (%d servings)", *e.RecipeID, e.Servings)
	default:
		return tui.Dim(e.Notes)
	}
	if e.Notes != "" {
		s += "  " + tui.Dim(e.Notes)
	}
	return s
}

func runPlanSet(cmd *cobra.Command, args []string) error {
	date, err := parseDateArg(args[0])
	if err != nil {
		return err
	}
	recipeID, _ := cmd.Flags().GetInt64("recipe")
	servings, _ := cmd.Flags().GetInt("servings")
	notes, _ := cmd.Flags().GetString("notes")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	entry := store.MealPlanEntry{Date: date, Slot: args[1], Servings: servings, Notes: notes}
	if recipeID != 0 {
		entry.RecipeID = &recipeID
	}
	if err := a.db.SetMeal(entry); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("recipe %d not found", recipeID)
		}
		return err
	}

	if entry.RecipeID == nil && notes == "" {
		fmt.Println(tui.Success(fmt.Sprintf("Cleared %s %s", date, args[1])))
		return nil
	}
	fmt.Println(tui.Success(fmt.Sprintf("Planned %s %s", date, args[1])))
	return nil
}

func runPlanClear(cmd *cobra.Command, args []string) error {
	date, err := parseDateArg(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.ClearMeal(date, args[1]); err != nil {
		return err
	}
	fmt.Println(tui.Success(fmt.Sprintf("Cleared %s %s", date, args[1])))
	return nil
}

func runPlanExport(cmd *cobra.Command, args []string) error {
	anchor, err := weekAnchor(cmd)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	from, to := dates.Week(anchor)
	entries, err := a.db.MealsInRange(from, to)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := calendar.Export(&buf, entries, time.Local, time.Now()); err != nil {
		if errors.Is(err, calendar.ErrNoMeals) {
			return fmt.Errorf("nothing planned between %s and %s", from, to)
		}
		return err
	}

	if out == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Println(tui.Success(fmt.Sprintf("Exported %d meals to %s", len(entries), out)))
	return nil
}

func runPlanSuggest(cmd *cobra.Command, args []string) error {
	anchor, err := weekAnchor(cmd)
	if err != nil {
		return err
	}
	prefs, _ := cmd.Flags().GetString("prefs")
	apply, _ := cmd.Flags().GetBool("apply")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	recipes, err := a.db.ListRecipes()
	if err != nil {
		return err
	}
	pantry, err := a.db.ListPantry()
	if err != nil {
		return err
	}
	p, err := aiProvider(cmd, a)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	monday := dates.WeekStart(anchor)
	fmt.Println(tui.Dim(fmt.Sprintf("Planning the week of %s with %s...", monday.Format(dates.Layout), a.cfg.AI.Provider)))
	suggestions, err := ai.SuggestWeek(ctx, p, recipes, pantry, prefs)
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		fmt.Println("No suggestions returned.")
		return nil
	}
	for _, s := range suggestions {
		line := fmt.Sprintf("  %-9s %-10s %s", s.Day, s.Slot, s.Meal)
		if s.Notes != "" {
			line += "  " + tui.Dim(s.Notes)
		}
		fmt.Println(line)
	}
	if !apply {
		return nil
	}

	entries := ai.PlanEntries(monday, suggestions, recipes)
	for _, e := range entries {
		if err := a.db.SetMeal(e); err != nil {
			return fmt.Errorf("applying %s %s: %w", e.Date, e.Slot, err)
		}
	}
	fmt.Println(tui.Success(fmt.Sprintf("Planned %d meal(s) for the week of %s", len(entries), monday.Format(dates.Layout))))
	return nil
}
