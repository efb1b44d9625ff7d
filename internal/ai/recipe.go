package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/christopherklint97/mealr/internal/store"
)

const recipePrompt = `You are a home cooking assistant that writes recipes as structured data.

Rules:
1. Ingredient names are plain grocery names without preparation notes; put preparation in the instructions.
2. Use quantity 0 and an empty unit when an amount is not given.
3. Instructions are numbered steps separated by newlines.
4. Tags are comma-separated and lowercase. Prefer: ` + predefinedTags + `.
5. Rating is 1 to 5, how good or recommended the recipe is.

Return valid JSON matching the required schema.`

const predefinedTags = "easy,quick,budget-friendly,comfort food,healthy,vegetarian,vegan," +
	"gluten-free,dairy-free,high-protein,meal-prep,kid-friendly,one-pot," +
	"slow-cooker,grilling,breakfast,lunch,dinner,snack,dessert,side-dish," +
	"soup,salad,favorite"

// maxRecipes bounds a single generate request.
const maxRecipes = 10

var (
	recipeSchema      = generateSchema[recipeDraft]()
	recipeBatchSchema = generateSchema[recipeBatch]()
)

// ParseRecipe structures free-form recipe text.
func ParseRecipe(ctx context.Context, p Completer, text string) (*store.Recipe, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("parsing recipe: no text given")
	}
	return requestRecipe(ctx, p, "parsed_recipe", "Extract the recipe from the following text.\n\nRecipe text:\n"+text)
}

// GenerateRecipes invents count recipes that mainly use what is in the pantry.
func GenerateRecipes(ctx context.Context, p Completer, pantry []store.PantryItem, preferences string, count int) ([]*store.Recipe, error) {
	if count < 1 || count > maxRecipes {
		return nil, fmt.Errorf("generating recipes: count must be between 1 and %d", maxRecipes)
	}

	var sb strings.Builder
	sb.WriteString("I have the following items in my pantry, fridge and freezer:\n\n")
	sb.WriteString(pantrySummary(pantry))
	if count == 1 {
		sb.WriteString("\n\nCreate one recipe I can make using primarily these ingredients.")
	} else {
		fmt.Fprintf(&sb, "\n\nCreate exactly %d different recipes, using primarily these ingredients and a variety of meal types.", count)
	}
	if preferences = strings.TrimSpace(preferences); preferences != "" {
		sb.WriteString("\n\nAdditional preferences or constraints: " + preferences)
	}

	raw, err := p.Complete(ctx, Request{
		Name:        "generated_recipes",
		Description: "Recipes built from pantry contents",
		System:      recipePrompt,
		Prompt:      sb.String(),
		Schema:      recipeBatchSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("generating recipes: %w", err)
	}

	var batch recipeBatch
	if err := json.Unmarshal([]byte(raw), &batch); err != nil {
		return nil, fmt.Errorf("generating recipes: parsing answer: %w (raw: %s)", err, truncateStr(raw, 1000))
	}
	if len(batch.Recipes) == 0 {
		return nil, fmt.Errorf("generating recipes: model returned no recipes")
	}
	out := make([]*store.Recipe, 0, len(batch.Recipes))
	for _, d := range batch.Recipes {
		out = append(out, d.toRecipe())
	}
	return out, nil
}

// ModifyRecipe rewrites r according to instruction. The source URL and any
// ingredient price estimates are carried over; prices match by name.
func ModifyRecipe(ctx context.Context, p Completer, r *store.Recipe, instruction string) (*store.Recipe, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, fmt.Errorf("modifying recipe: no instruction given")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Modify the following recipe according to this instruction: %s\n\n", instruction)
	sb.WriteString(describeRecipe(r))

	modified, err := requestRecipe(ctx, p, "modified_recipe", sb.String())
	if err != nil {
		return nil, err
	}
	modified.SourceURL = r.SourceURL

	prices := make(map[string]*float64)
	for _, ing := range r.Ingredients {
		if ing.EstimatedPrice != nil {
			prices[strings.ToLower(strings.TrimSpace(ing.Name))] = ing.EstimatedPrice
		}
	}
	for i := range modified.Ingredients {
		if price, ok := prices[strings.ToLower(strings.TrimSpace(modified.Ingredients[i].Name))]; ok {
			v := *price
			modified.Ingredients[i].EstimatedPrice = &v
		}
	}
	return modified, nil
}

func requestRecipe(ctx context.Context, p Completer, name, prompt string) (*store.Recipe, error) {
	raw, err := p.Complete(ctx, Request{
		Name:        name,
		Description: "A structured recipe",
		System:      recipePrompt,
		Prompt:      prompt,
		Schema:      recipeSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting recipe: %w", err)
	}
	var d recipeDraft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("parsing recipe: %w (raw: %s)", err, truncateStr(raw, 1000))
	}
	return d.toRecipe(), nil
}

// toRecipe fills defaults and clamps the rating to 1..5. A rating of 0
// means the model gave none.
func (d recipeDraft) toRecipe() *store.Recipe {
	r := &store.Recipe{
		Name:         strings.TrimSpace(d.Name),
		Description:  strings.TrimSpace(d.Description),
		Servings:     d.Servings,
		PrepTime:     strings.TrimSpace(d.PrepTime),
		CookTime:     strings.TrimSpace(d.CookTime),
		Instructions: strings.TrimSpace(d.Instructions),
		Tags:         strings.TrimSpace(d.Tags),
	}
	if r.Name == "" {
		r.Name = "Untitled Recipe"
	}
	if r.Servings <= 0 {
		r.Servings = 4
	}
	if d.Rating != 0 {
		rating := int64(min(max(d.Rating, 1), 5))
		r.Rating = &rating
	}
	for _, ing := range d.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		ri := store.RecipeIngredient{Name: name, Unit: strings.TrimSpace(ing.Unit)}
		if ing.Quantity > 0 {
			q := ing.Quantity
			ri.Quantity = &q
		}
		r.Ingredients = append(r.Ingredients, ri)
	}
	return r
}

func describeRecipe(r *store.Recipe) string {
	var sb strings.Builder
	sb.WriteString("Current recipe:\n")
	fmt.Fprintf(&sb, "Name: %s\n", r.Name)
	fmt.Fprintf(&sb, "Servings: %d\n", r.Servings)
	fmt.Fprintf(&sb, "Prep time: %s\n", r.PrepTime)
	fmt.Fprintf(&sb, "Cook time: %s\n", r.CookTime)
	fmt.Fprintf(&sb, "Description: %s\n", r.Description)
	fmt.Fprintf(&sb, "Tags: %s\n", r.Tags)
	sb.WriteString("\nIngredients:\n")
	for _, ing := range r.Ingredients {
		line := "- "
		if ing.Quantity != nil {
			line += strconv.FormatFloat(*ing.Quantity, 'g', -1, 64) + " "
		}
		if ing.Unit != "" {
			line += ing.Unit + " "
		}
		sb.WriteString(line + ing.Name + "\n")
	}
	sb.WriteString("\nInstructions:\n")
	sb.WriteString(r.Instructions)
	sb.WriteByte('\n')
	return sb.String()
}

// pantrySummary lists pantry items one per line as "name (qty unit) [location]".
func pantrySummary(items []store.PantryItem) string {
	if len(items) == 0 {
		return "Pantry is empty."
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		qty := "?"
		if it.Quantity != nil && *it.Quantity != 0 {
			qty = strconv.FormatFloat(*it.Quantity, 'g', -1, 64)
		}
		if it.Unit != "" {
			qty += " " + it.Unit
		}
		line := fmt.Sprintf("%s (qty: %s)", it.Name, qty)
		if it.Location != "" {
			line += " [" + it.Location + "]"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
