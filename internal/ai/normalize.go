package ai

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/christopherklint97/mealr/internal/store"
)

// IngredientStore is the part of the database normalization reads and writes.
type IngredientStore interface {
	UnnormalizedIngredients() ([]store.RecipeIngredient, error)
	SetShoppingForm(ingredientID int64, name string, qty *float64, unit string) error
}

// NormalizeResult counts what NormalizePending did.
type NormalizeResult struct {
	Recipes int
	Updated int
	Skipped int
}

// NormalizePending asks n for the shopping form of every ingredient that has
// none yet, one recipe per request, and stores the answers. Lines the model
// leaves blank are skipped so a later run can retry them.
func NormalizePending(ctx context.Context, n Normalizer, db IngredientStore, logger *slog.Logger) (NormalizeResult, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var res NormalizeResult

	pending, err := db.UnnormalizedIngredients()
	if err != nil {
		return res, err
	}

	for _, group := range groupByRecipe(pending) {
		lines := make([]IngredientLine, len(group))
		for i, ing := range group {
			lines[i] = IngredientLine{Name: ing.Name, Quantity: ing.Quantity, Unit: ing.Unit}
		}

		forms, err := n.NormalizeIngredients(ctx, lines)
		if err != nil {
			return res, fmt.Errorf("normalizing recipe %d: %w", group[0].RecipeID, err)
		}
		res.Recipes++

		for i, ing := range group {
			if i >= len(forms) || forms[i].Name == "" {
				res.Skipped++
				continue
			}
			f := forms[i]
			if err := db.SetShoppingForm(ing.ID, f.Name, f.Quantity, f.Unit); err != nil {
				return res, err
			}
			res.Updated++
		}
		logger.Info("normalized recipe", "recipe_id", group[0].RecipeID, "lines", len(group))
	}
	return res, nil
}

func groupByRecipe(ings []store.RecipeIngredient) [][]store.RecipeIngredient {
	var groups [][]store.RecipeIngredient
	index := make(map[int64]int)
	for _, ing := range ings {
		i, ok := index[ing.RecipeID]
		if !ok {
			i = len(groups)
			index[ing.RecipeID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], ing)
	}
	return groups
}
