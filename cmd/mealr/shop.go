package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/christopherklint97/mealr/internal/dates"
	"github.com/christopherklint97/mealr/internal/shopping"
	"github.com/christopherklint97/mealr/internal/tui"
	"github.com/spf13/cobra"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Build and work through shopping lists",
}

var shopGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build the shopping list for a date range",
	Args:  cobra.NoArgs,
	RunE:  runShopGenerate,
}

var shopShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved shopping list",
	Args:  cobra.NoArgs,
	RunE:  runShopShow,
}

var shopClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the saved shopping list",
	Args:  cobra.NoArgs,
	RunE:  runShopClear,
}

var shopWhyCmd = &cobra.Command{
	Use:   "why NAME",
	Short: "Show which planned meals need an ingredient",
	Args:  cobra.ExactArgs(1),
	RunE:  runShopWhy,
}

var shopCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Tick items off the saved list while shopping",
	Args:  cobra.NoArgs,
	RunE:  runShopCheck,
}

func init() {
	shopGenerateCmd.Flags().String("from", "", "First day; used together with --to (default: this week)")
	shopGenerateCmd.Flags().String("to", "", "Last day; used together with --from (default: this week)")
	shopGenerateCmd.Flags().Bool("no-pantry", false, "Ignore pantry stock")
	shopGenerateCmd.Flags().Bool("save", false, "Save the list for show, why and check")

	shopCmd.AddCommand(shopGenerateCmd)
	shopCmd.AddCommand(shopShowCmd)
	shopCmd.AddCommand(shopClearCmd)
	shopCmd.AddCommand(shopWhyCmd)
	shopCmd.AddCommand(shopCheckCmd)
}

func runShopGenerate(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	noPantry, _ := cmd.Flags().GetBool("no-pantry")
	save, _ := cmd.Flags().GetBool("save")

	if (from == "") != (to == "") {
		return fmt.Errorf("--from and --to must be given together")
	}
	start, end, err := dates.Range(from, to, time.Now())
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	req := shopping.Request{Start: start, End: end, UsePantry: a.cfg.Shopping.UsePantry && !noPantry}
	bundle, err := a.generator().Build(req)
	if err != nil {
		return fmt.Errorf("generating shopping list: %w", err)
	}

	fmt.Println(tui.Dim(fmt.Sprintf("Shopping list for %s to %s", start, end)))
	fmt.Println()
	fmt.Println(shopping.Format(bundle.List))

	if save {
		if err := a.cache().Save(bundle); err != nil {
			return fmt.Errorf("saving shopping list: %w", err)
		}
		fmt.Println()
		fmt.Println(tui.Success("Saved."))
	}
	return nil
}

// loadSaved returns the cached bundle or an error telling the user how to
// create one.
func loadSaved(a *app) (*shopping.Bundle, error) {
	b, err := a.cache().Load()
	if err != nil {
		return nil, fmt.Errorf("loading saved list: %w", err)
	}
	if b == nil {
		return nil, fmt.Errorf("no saved shopping list, run 'mealr shop generate --save' first")
	}
	return b, nil
}

func runShopShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := loadSaved(a)
	if err != nil {
		return err
	}

	pantry := "with pantry"
	if !b.UsePantry {
		pantry = "without pantry"
	}
	header := fmt.Sprintf("Shopping list for %s to %s (%s)", b.Start, b.End, pantry)
	if !b.SavedAt.IsZero() {
		header += ", saved " + b.SavedAt.Local().Format("Mon Jan 2 15:04")
	}
	fmt.Println(tui.Dim(header))
	fmt.Println()
	fmt.Println(shopping.Format(b.List))
	return nil
}

func runShopClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.cache().Clear(); err != nil {
		return fmt.Errorf("clearing saved list: %w", err)
	}
	fmt.Println(tui.Success("Saved shopping list cleared."))
	return nil
}

func runShopWhy(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	// Prefer the saved list's trace so the answer matches what was printed.
	var trace shopping.Trace
	saved, err := a.cache().Load()
	if err != nil {
		return fmt.Errorf("loading saved list: %w", err)
	}
	if saved != nil {
		trace = saved.Trace
	} else {
		start, end, err := dates.Range("", "", time.Now())
		if err != nil {
			return err
		}
		if trace, err = a.generator().Trace(start, end); err != nil {
			return err
		}
	}

	name := shopping.NormalizeName(args[0])
	sources := trace[name]
	if len(sources) == 0 {
		fmt.Println(tui.Warning(fmt.Sprintf("No planned meal needs %q.", args[0])))
		return nil
	}

	fmt.Println(tui.Heading(name))
	for _, s := range sources {
		qty := shopping.FormatQuantity(s.Quantity)
		if s.Unit != "" {
			qty += " " + s.Unit
		}
		fmt.Printf("  %s %-9s %s (#%d)  %s\n", s.Date, s.Slot, s.RecipeName, s.RecipeID, qty)
	}
	return nil
}

func runShopCheck(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := loadSaved(a)
	if err != nil {
		return err
	}
	if b.List.Len() == 0 {
		fmt.Println(shopping.EmptyText)
		return nil
	}

	checklist := tui.NewChecklistApp(b.List)
	if _, err := tea.NewProgram(checklist).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	result := checklist.GetResult()
	if result == nil || result.Canceled {
		fmt.Println("Nothing changed.")
		return nil
	}

	b.List = result.Remaining
	if err := a.cache().Save(*b); err != nil {
		return fmt.Errorf("saving shopping list: %w", err)
	}
	fmt.Println(tui.Success(fmt.Sprintf("Checked off %d item(s), %d left.", result.Checked, b.List.Len())))
	return nil
}
