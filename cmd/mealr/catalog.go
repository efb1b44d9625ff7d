package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/christopherklint97/mealr/internal/ai"
	"github.com/christopherklint97/mealr/internal/scheduler"
	"github.com/christopherklint97/mealr/internal/shopping"
	"github.com/christopherklint97/mealr/internal/store"
	"github.com/christopherklint97/mealr/internal/tui"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var recipeCmd = &cobra.Command{Use: "recipe", Short: "Manage recipes"}

var recipeAddCmd = &cobra.Command{
	Use:   "add FILE.toml",
	Short: "Add a recipe from a TOML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecipeAdd,
}

var recipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes",
	Args:  cobra.NoArgs,
	RunE:  runRecipeList,
}

var recipeShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a recipe and its ingredients",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecipeShow,
}

var recipeDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a recipe",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecipeDelete,
}

var recipeNormalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Use AI to fill in the store-purchasable form of ingredients",
	Args:  cobra.NoArgs,
	RunE:  runRecipeNormalize,
}

var recipeParseCmd = &cobra.Command{
	Use:   "parse FILE|URL|-",
	Short: "Use AI to turn recipe text or a web page into a recipe",
	Long: `Reads recipe text from FILE, or from stdin when the argument is "-", and
structures it into a recipe. An http(s) URL is fetched and its page text is used.
The recipe is printed as TOML (suitable for 'recipe add') unless --save is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecipeParse,
}

var recipeGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Use AI to create recipes from what is in the pantry",
	Args:  cobra.NoArgs,
	RunE:  runRecipeGenerate,
}

var recipeModifyCmd = &cobra.Command{
	Use:   "modify ID INSTRUCTION",
	Short: "Use AI to rewrite a recipe, e.g. \"make it vegetarian\"",
	Long: `Rewrites a recipe according to INSTRUCTION. The result is printed as TOML;
--save stores it as a new recipe and leaves the original untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: runRecipeModify,
}

var pantryCmd = &cobra.Command{Use: "pantry", Short: "Manage what you have at home"}

var pantryAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a pantry item",
	Args:  cobra.ExactArgs(1),
	RunE:  runPantryAdd,
}

var pantryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pantry items",
	Args:  cobra.NoArgs,
	RunE:  runPantryList,
}

var pantryDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a pantry item",
	Args:  cobra.ExactArgs(1),
	RunE:  runPantryDelete,
}

var pantryExpiringCmd = &cobra.Command{
	Use:   "expiring",
	Short: "List items close to their best-by date",
	Args:  cobra.NoArgs,
	RunE:  runPantryExpiring,
}

var stapleCmd = &cobra.Command{Use: "staple", Short: "Manage household staples"}

var stapleAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a staple",
	Args:  cobra.ExactArgs(1),
	RunE:  runStapleAdd,
}

var stapleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List staples",
	Args:  cobra.NoArgs,
	RunE:  runStapleList,
}

var stapleNeedCmd = &cobra.Command{
	Use:   "need NAME",
	Short: "Mark a staple as running low",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setStapleNeed(cmd, args[0], true) },
}

var stapleHaveCmd = &cobra.Command{
	Use:   "have NAME",
	Short: "Mark a staple as stocked",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setStapleNeed(cmd, args[0], false) },
}

var stapleDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a staple",
	Args:  cobra.ExactArgs(1),
	RunE:  runStapleDelete,
}

var priceCmd = &cobra.Command{Use: "price", Short: "Manage known item prices"}

var priceSetCmd = &cobra.Command{
	Use:   "set NAME PRICE",
	Short: "Set the unit price of an item",
	Args:  cobra.ExactArgs(2),
	RunE:  runPriceSet,
}

var priceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known prices",
	Args:  cobra.NoArgs,
	RunE:  runPriceList,
}

var priceDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a known price",
	Args:  cobra.ExactArgs(1),
	RunE:  runPriceDelete,
}

var priceImportCmd = &cobra.Command{
	Use:   "import FILE.csv",
	Short: "Import prices from a CSV file (item_name,unit_price,unit,store)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPriceImport,
}

var storeCmd = &cobra.Command{Use: "store", Short: "Manage stores"}

var storeAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreAdd,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stores",
	Args:  cobra.NoArgs,
	RunE:  runStoreList,
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a store; items that preferred it become unassigned",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreDelete,
}

func init() {
	recipeParseCmd.Flags().Bool("save", false, "Store the recipe instead of printing it")
	recipeGenerateCmd.Flags().String("prefs", "", "Preferences or constraints, e.g. \"quick, no dairy\"")
	recipeGenerateCmd.Flags().Int("count", 1, "Number of recipes to create")
	recipeGenerateCmd.Flags().Bool("save", false, "Store the recipes instead of printing them")
	recipeModifyCmd.Flags().Bool("save", false, "Store the result as a new recipe")
	recipeCmd.AddCommand(recipeAddCmd, recipeListCmd, recipeShowCmd, recipeDeleteCmd, recipeNormalizeCmd,
		recipeParseCmd, recipeGenerateCmd, recipeModifyCmd)

	pantryAddCmd.Flags().Float64("qty", 1, "Quantity on hand")
	pantryAddCmd.Flags().String("unit", "", "Unit of the quantity")
	pantryAddCmd.Flags().Float64("price", 0, "Estimated unit price")
	pantryAddCmd.Flags().String("store", "", "Preferred store")
	pantryAddCmd.Flags().String("best-by", "", "Best-by date")
	pantryAddCmd.Flags().String("category", "", "Category, e.g. Dairy")
	pantryAddCmd.Flags().String("location", "", "Where it is kept, e.g. Fridge")
	pantryExpiringCmd.Flags().Int("days", 7, "Look this many days ahead")
	pantryExpiringCmd.Flags().Bool("notify", false, "Also send a desktop notification")
	pantryCmd.AddCommand(pantryAddCmd, pantryListCmd, pantryDeleteCmd, pantryExpiringCmd)

	stapleAddCmd.Flags().String("category", "", "Category, e.g. Household")
	stapleAddCmd.Flags().String("store", "", "Preferred store")
	stapleAddCmd.Flags().Bool("need", false, "Mark as running low right away")
	stapleCmd.AddCommand(stapleAddCmd, stapleListCmd, stapleNeedCmd, stapleHaveCmd, stapleDeleteCmd)

	priceSetCmd.Flags().String("unit", "", "Unit the price is for")
	priceSetCmd.Flags().String("store", "", "Store the price is from")
	priceCmd.AddCommand(priceSetCmd, priceListCmd, priceDeleteCmd, priceImportCmd)

	storeAddCmd.Flags().String("location", "", "Address or area")
	storeAddCmd.Flags().String("notes", "", "Free-text notes")
	storeCmd.AddCommand(storeAddCmd, storeListCmd, storeDeleteCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", s)
	}
	return id, nil
}

func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("$%.2f", *p)
}

func runRecipeAdd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading recipe file: %w", err)
	}
	var r store.Recipe
	if err := toml.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("parsing recipe file: %w", err)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.db.AddRecipe(&r)
	if err != nil {
		return err
	}
	fmt.Println(tui.Success(fmt.Sprintf("Added recipe #%d %s (%d ingredients)", id, r.Name, len(r.Ingredients))))
	return nil
}

func runRecipeList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	recipes, err := a.db.ListRecipes()
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		fmt.Println("No recipes yet. Add one with 'mealr recipe add FILE.toml'.")
		return nil
	}
	for _, r := range recipes {
		fmt.Printf("  %4d  %-30s  serves %d  %s\n", r.ID, r.Name, r.Servings, tui.Dim(r.Tags))
	}
	return nil
}

func runRecipeShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.db.GetRecipe(id)
	if err != nil {
		return err
	}

	fmt.Println(tui.Heading(fmt.Sprintf("#%d %s", r.ID, r.Name)))
	if r.Description != "" {
		fmt.Println(r.Description)
	}
	fmt.Printf("Serves %d", r.Servings)
	if r.PrepTime != "" || r.CookTime != "" {
		fmt.Printf("  prep %s  cook %s", r.PrepTime, r.CookTime)
	}
	fmt.Println()
	fmt.Println()

	for _, ing := range r.Ingredients {
		line := ing.Name
		if ing.Quantity != nil {
			line = shopping.FormatQuantity(*ing.Quantity) + " " + ing.Unit + " " + ing.Name
		}
		if ing.ShoppingName != "" {
			buy := ing.ShoppingName
			if ing.ShoppingQty != nil {
				buy = shopping.FormatQuantity(*ing.ShoppingQty) + " " + ing.ShoppingUnit + " " + buy
			}
			line += tui.Dim("  -> " + buy)
		}
		fmt.Printf("  - %s  %s\n", line, formatPrice(ing.EstimatedPrice))
	}
	if r.Instructions != "" {
		fmt.Println()
		fmt.Println(r.Instructions)
	}
	return nil
}

func runRecipeDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.DeleteRecipe(id); err != nil {
		return err
	}
	fmt.Println(tui.Success(fmt.Sprintf("Deleted recipe #%d", id)))
	return nil
}

func runRecipeNormalize(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := aiProvider(cmd, a)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println(tui.Dim(fmt.Sprintf("Normalizing ingredients with %s (%s)...", a.cfg.AI.Provider, a.cfg.AI.Model)))
	res, err := ai.NormalizePending(ctx, n, a.db, a.logger)
	if err != nil {
		return fmt.Errorf("normalizing ingredients: %w", err)
	}
	if res.Recipes == 0 {
		fmt.Println("Every ingredient already has a shopping form.")
		return nil
	}
	fmt.Println(tui.Success(fmt.Sprintf("Updated %d ingredient(s) across %d recipe(s)", res.Updated, res.Recipes)))
	if res.Skipped > 0 {
		fmt.Println(tui.Warning(fmt.Sprintf("%d ingredient(s) left for a later run", res.Skipped)))
	}
	return nil
}

// aiProvider builds the configured AI provider. With --verbose the claude CLI
// streams its progress to stderr.
func aiProvider(cmd *cobra.Command, a *app) (ai.Provider, error) {
	p, err := ai.New(a.cfg.AI, a.logger)
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		if c, ok := p.(*ai.ClaudeCLI); ok {
			c.OnProgress = func(text string) { fmt.Fprint(os.Stderr, text) }
		}
	}
	return p, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func runRecipeParse(cmd *cobra.Command, args []string) error {
	src := args[0]
	var text string
	switch {
	case isURL(src):
		// fetched below
	case src == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	default:
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("reading recipe text: %w", err)
		}
		text = string(data)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := aiProvider(cmd, a)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	var r *store.Recipe
	if isURL(src) {
		fmt.Fprintln(os.Stderr, tui.Dim("Fetching "+src+"..."))
		r, err = ai.ParseRecipeURL(ctx, p, nil, src)
	} else {
		r, err = ai.ParseRecipe(ctx, p, text)
	}
	if err != nil {
		return err
	}
	save, _ := cmd.Flags().GetBool("save")
	return emitRecipes(a, []*store.Recipe{r}, save)
}

func runRecipeGenerate(cmd *cobra.Command, args []string) error {
	prefs, _ := cmd.Flags().GetString("prefs")
	count, _ := cmd.Flags().GetInt("count")
	save, _ := cmd.Flags().GetBool("save")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

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

	fmt.Fprintln(os.Stderr, tui.Dim(fmt.Sprintf("Generating %d recipe(s) from %d pantry item(s)...", count, len(pantry))))
	recipes, err := ai.GenerateRecipes(ctx, p, pantry, prefs, count)
	if err != nil {
		return err
	}
	return emitRecipes(a, recipes, save)
}

func runRecipeModify(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	save, _ := cmd.Flags().GetBool("save")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	orig, err := a.db.GetRecipe(id)
	if err != nil {
		return err
	}
	p, err := aiProvider(cmd, a)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	r, err := ai.ModifyRecipe(ctx, p, orig, args[1])
	if err != nil {
		return err
	}
	return emitRecipes(a, []*store.Recipe{r}, save)
}

// emitRecipes stores recipes when save is set and prints them as TOML
// otherwise.
func emitRecipes(a *app, recipes []*store.Recipe, save bool) error {
	for i, r := range recipes {
		if save {
			id, err := a.db.AddRecipe(r)
			if err != nil {
				return err
			}
			fmt.Println(tui.Success(fmt.Sprintf("Added recipe #%d %s (%d ingredients)", id, r.Name, len(r.Ingredients))))
			continue
		}
		if i > 0 {
			fmt.Println()
		}
		out, err := toml.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding recipe: %w", err)
		}
		os.Stdout.Write(out)
	}
	return nil
}

func runPantryAdd(cmd *cobra.Command, args []string) error {
	item := store.PantryItem{Name: args[0]}
	flags := cmd.Flags()
	item.Unit, _ = flags.GetString("unit")
	item.StoreName, _ = flags.GetString("store")
	item.Category, _ = flags.GetString("category")
	item.Location, _ = flags.GetString("location")

	qty, _ := flags.GetFloat64("qty")
	item.Quantity = &qty
	if flags.Changed("price") {
		price, _ := flags.GetFloat64("price")
		item.EstimatedPrice = &price
	}
	if bestBy, _ := flags.GetString("best-by"); bestBy != "" {
		date, err := parseDateArg(bestBy)
		if err != nil {
			return err
		}
		item.BestBy = date
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.db.AddPantryItem(&item)
	if err != nil {
		return err
	}
	fmt.Println(tui.Success(fmt.Sprintf("Added pantry item #%d %s", id, item.Name)))
	return nil
}

func printPantry(items []store.PantryItem) {
	for _, p := range items {
		qty := ""
		if p.Quantity != nil {
			qty = shopping.FormatQuantity(*p.Quantity) + " " + p.Unit
		}
		bestBy := ""
		if p.BestBy != "" {
			bestBy = "best by " + p.BestBy
		}
		fmt.Printf("  %4d  %-24s %-10s %-8s %-14s %s\n",
			p.ID, p.Name, qty, formatPrice(p.EstimatedPrice), p.StoreName, tui.Dim(bestBy))
	}
}

func runPantryList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := a.db.ListPantry()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("Pantry is empty.")
		return nil
	}
	printPantry(items)
	return nil
}

func runPantryDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.DeletePantryItem(id); err != nil {
		return err
	}
	fmt.Println(tui.Success(fmt.Sprintf("Deleted pantry item #%d", id)))
	return nil
}

func runPantryExpiring(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	notify, _ := cmd.Flags().GetBool("notify")
	if days < 0 {
		return fmt.Errorf("--days must not be negative")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := a.db.ExpiringSoon(time.Now(), days)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Printf("Nothing expires in the next %d day(s).\n", days)
		return nil
	}

	fmt.Println(tui.Warning(fmt.Sprintf("%d item(s) expire within %d day(s):", len(items), days)))
	printPantry(items)

	if notify {
		title, msg := scheduler.ExpiryMessage(items)
		if err := scheduler.SendNotification(title, msg); err != nil {
			a.logger.Warn("notification failed", "err", err)
		}
	}
	return nil
}

func runStapleAdd(cmd *cobra.Command, args []string) error {
	s := store.Staple{Name: args[0]}
	s.Category, _ = cmd.Flags().GetString("category")
	s.StoreName, _ = cmd.Flags().GetString("store")
	s.NeedToBuy, _ = cmd.Flags().GetBool("need")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.db.AddStaple(&s); err != nil {
		return err
	}
	fmt.Println(tui.Success(fmt.Sprintf("Added staple %s", s.Name)))
	return nil
}

func runStapleList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	staples, err := a.db.ListStaples()
	if err != nil {
		return err
	}
	if len(staples) == 0 {
		fmt.Println("No staples yet.")
		return nil
	}
	for _, s := range staples {
		status := tui.Dim("stocked")
		if s.NeedToBuy {
			status = tui.Warning("need")
		}
		fmt.Printf("  %-24s %-12s %-14s %s\n", s.Name, s.Category, s.StoreName, status)
	}
	return nil
}

func setStapleNeed(cmd *cobra.Command, name string, need bool) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.SetNeedToBuy(name, need); err != nil {
		return err
	}
	if need {
		fmt.Println(tui.Success(fmt.Sprintf("%s goes on the next list", name)))
	} else {
		fmt.Println(tui.Success(fmt.Sprintf("%s is stocked", name)))
	}
	return nil
}

func runStapleDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.DeleteStaple(args[0]); err != nil {
		return err
	}
	fmt.Println(tui.Success(fmt.Sprintf("Deleted staple %s", args[0])))
	return nil
}

func runPriceSet(cmd *cobra.Command, args []string) error {
	price, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid price %q", args[1])
	}
	p := store.KnownPrice{ItemName: args[0], UnitPrice: price}
	p.Unit, _ = cmd.Flags().GetString("unit")
	p.StoreName, _ = cmd.Flags().GetString("store")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.UpsertPrice(&p); err != nil {
		return err
	}
	fmt.Println(tui.Success(fmt.Sprintf("%s: $%.2f", p.ItemName, p.UnitPrice)))
	return nil
}

func runPriceList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	prices, err := a.db.ListPrices()
	if err != nil {
		return err
	}
	if len(prices) == 0 {
		fmt.Println("No known prices yet.")
		return nil
	}
	for _, p := range prices {
		unit := ""
		if p.Unit != "" {
			unit = "/" + p.Unit
		}
		fmt.Printf("  %-24s $%7.2f%-8s %-14s %s\n", p.ItemName, p.UnitPrice, unit, p.StoreName, tui.Dim(p.LastUpdated))
	}
	return nil
}

func runPriceDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.DeletePrice(args[0]); err != nil {
		return err
	}
	fmt.Println(tui.Success(fmt.Sprintf("Deleted price for %s", args[0])))
	return nil
}

func runPriceImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening price file: %w", err)
	}
	defer f.Close()

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	prices, err := store.ParseKnownPricesCSV(f, a.logger)
	if err != nil {
		return err
	}
	if err := a.db.BulkUpsertPrices(prices); err != nil {
		return err
	}
	fmt.Println(tui.Success(fmt.Sprintf("Imported %d price(s)", len(prices))))
	return nil
}

func runStoreAdd(cmd *cobra.Command, args []string) error {
	s := store.Store{Name: args[0]}
	s.Location, _ = cmd.Flags().GetString("location")
	s.Notes, _ = cmd.Flags().GetString("notes")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.db.AddStore(&s); err != nil {
		return err
	}
	fmt.Println(tui.Success(fmt.Sprintf("Added store %s", s.Name)))
	return nil
}

func runStoreList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	stores, err := a.db.ListStores()
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		fmt.Println("No stores yet.")
		return nil
	}
	for _, s := range stores {
		fmt.Printf("  %-20s %-24s %s\n", s.Name, s.Location, tui.Dim(s.Notes))
	}
	return nil
}

func runStoreDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.db.StoreByName(args[0])
	if err != nil {
		return err
	}
	if err := a.db.DeleteStore(s.ID); err != nil {
		return err
	}
	fmt.Println(tui.Success(fmt.Sprintf("Deleted store %s", s.Name)))
	return nil
}
