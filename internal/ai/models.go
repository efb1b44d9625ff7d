package ai

// IngredientLine is a recipe ingredient as written in the recipe.
type IngredientLine struct {
	Name     string
	Quantity *float64
	Unit     string
}

// ShoppingForm is how an ingredient is bought. Empty Name means the model
// gave no answer for that line.
type ShoppingForm struct {
	Name     string
	Quantity *float64
	Unit     string
}

type normalizeResponse struct {
	Items []normalizedItem `json:"items" jsonschema:"description=One entry per input ingredient"`
}

type normalizedItem struct {
	Index        *int    `json:"index" jsonschema:"description=Zero-based index of the input line"`
	ShoppingName string  `json:"shopping_name" jsonschema:"description=Common grocery name"`
	ShoppingQty  float64 `json:"shopping_qty" jsonschema:"description=Quantity to buy or 0 if unknown"`
	ShoppingUnit string  `json:"shopping_unit" jsonschema:"description=Grocery unit such as lbs or cans"`
}

type recipeDraft struct {
	Name         string            `json:"name" jsonschema:"description=Recipe title"`
	Description  string            `json:"description" jsonschema:"description=One or two sentence summary"`
	Servings     int               `json:"servings" jsonschema:"description=Number of servings the recipe makes"`
	PrepTime     string            `json:"prep_time" jsonschema:"description=Preparation time such as 15 minutes"`
	CookTime     string            `json:"cook_time" jsonschema:"description=Cooking time such as 30 minutes"`
	Tags         string            `json:"tags" jsonschema:"description=Comma-separated lowercase tags"`
	Rating       int               `json:"rating" jsonschema:"description=How recommended the recipe is from 1 to 5"`
	Instructions string            `json:"instructions" jsonschema:"description=Numbered steps separated by newlines"`
	Ingredients  []draftIngredient `json:"ingredients" jsonschema:"description=Every ingredient the recipe uses"`
}

type draftIngredient struct {
	Name     string  `json:"name" jsonschema:"description=Grocery name without preparation notes"`
	Quantity float64 `json:"quantity" jsonschema:"description=Amount or 0 if not given"`
	Unit     string  `json:"unit" jsonschema:"description=Unit of the amount or empty"`
}

type recipeBatch struct {
	Recipes []recipeDraft `json:"recipes" jsonschema:"description=The requested recipes"`
}

// Suggestion is one proposed meal of a week plan.
type Suggestion struct {
	Day   string `json:"day" jsonschema:"enum=Monday,enum=Tuesday,enum=Wednesday,enum=Thursday,enum=Friday,enum=Saturday,enum=Sunday"`
	Slot  string `json:"slot" jsonschema:"enum=Breakfast,enum=Lunch,enum=Dinner"`
	Meal  string `json:"meal" jsonschema:"description=Saved recipe name spelled exactly or a short meal idea"`
	Notes string `json:"notes" jsonschema:"description=Short hint such as which pantry items it uses"`
}

type weekSuggestion struct {
	Meals []Suggestion `json:"meals" jsonschema:"description=Breakfast lunch and dinner for each day Monday to Sunday"`
}
