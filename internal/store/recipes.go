package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type Recipe struct {
	ID           int64              `toml:"-"`
	Name         string             `toml:"name"`
	Description  string             `toml:"description"`
	Servings     int                `toml:"servings"`
	PrepTime     string             `toml:"prep_time"`
	CookTime     string             `toml:"cook_time"`
	Instructions string             `toml:"instructions"`
	SourceURL    string             `toml:"source_url"`
	Tags         string             `toml:"tags"`
	Rating       *int64             `toml:"rating"`
	Ingredients  []RecipeIngredient `toml:"ingredients"`
}

// RecipeIngredient is one line of a recipe. The Shopping* fields hold the
// store-purchasable form once normalized.
type RecipeIngredient struct {
	ID             int64    `toml:"-"`
	RecipeID       int64    `toml:"-"`
	Name           string   `toml:"name"`
	Quantity       *float64 `toml:"quantity"`
	Unit           string   `toml:"unit"`
	EstimatedPrice *float64 `toml:"estimated_price"`
	ShoppingName   string   `toml:"shopping_name"`
	ShoppingQty    *float64 `toml:"shopping_qty"`
	ShoppingUnit   string   `toml:"shopping_unit"`
}

// AddRecipe inserts a recipe and its ingredients in one transaction.
func (db *DB) AddRecipe(r *Recipe) (int64, error) {
	if strings.TrimSpace(r.Name) == "" {
		return 0, fmt.Errorf("adding recipe: name is required")
	}
	servings := r.Servings
	if servings <= 0 {
		servings = 4
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("adding recipe: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO recipes (name, description, servings, prep_time, cook_time, instructions, source_url, tags, rating)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(r.Name), nullString(r.Description), servings,
		nullString(r.PrepTime), nullString(r.CookTime), nullString(r.Instructions),
		nullString(r.SourceURL), nullString(r.Tags), nullInt(r.Rating),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting recipe: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		_, err := tx.Exec(
			`INSERT INTO recipe_ingredients (recipe_id, name, quantity, unit, estimated_price, shopping_name, shopping_qty, shopping_unit)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, strings.TrimSpace(ing.Name), nullFloat(ing.Quantity), nullString(ing.Unit),
			nullFloat(ing.EstimatedPrice), nullString(ing.ShoppingName),
			nullFloat(ing.ShoppingQty), nullString(ing.ShoppingUnit),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting ingredient %q: %w", ing.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing recipe: %w", err)
	}
	return id, nil
}

func (db *DB) GetRecipe(id int64) (*Recipe, error) {
	var r Recipe
	var desc, prep, cook, instr, url, tags sql.NullString
	var rating sql.NullInt64
	err := db.QueryRow(
		`SELECT id, name, description, servings, prep_time, cook_time, instructions, source_url, tags, rating
		 FROM recipes WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &desc, &r.Servings, &prep, &cook, &instr, &url, &tags, &rating)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recipe %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}
	r.Description = desc.String
	r.PrepTime = prep.String
	r.CookTime = cook.String
	r.Instructions = instr.String
	r.SourceURL = url.String
	r.Tags = tags.String
	r.Rating = intPtr(rating)

	r.Ingredients, err = db.queryIngredients("WHERE recipe_id = ? ORDER BY id", id)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRecipes returns recipes without their ingredients, ordered by name.
func (db *DB) ListRecipes() ([]Recipe, error) {
	rows, err := db.Query("SELECT id, name, servings, tags, rating FROM recipes ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var r Recipe
		var tags sql.NullString
		var rating sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Name, &r.Servings, &tags, &rating); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		r.Tags = tags.String
		r.Rating = intPtr(rating)
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// DeleteRecipe removes a recipe and its ingredients. Meal-plan cells that
// referenced it become notes-only.
func (db *DB) DeleteRecipe(id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE meal_plan SET recipe_id = NULL WHERE recipe_id = ?", id); err != nil {
		return fmt.Errorf("detaching meal plan: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM recipe_ingredients WHERE recipe_id = ?", id); err != nil {
		return fmt.Errorf("deleting ingredients: %w", err)
	}
	result, err := tx.Exec("DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("recipe %d: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

// UnnormalizedIngredients returns ingredient lines with no shopping form yet.
func (db *DB) UnnormalizedIngredients() ([]RecipeIngredient, error) {
	return db.queryIngredients("WHERE shopping_name IS NULL OR shopping_name = '' ORDER BY recipe_id, id")
}

// SetShoppingForm records the purchasable form of one ingredient line.
func (db *DB) SetShoppingForm(ingredientID int64, name string, qty *float64, unit string) error {
	result, err := db.Exec(
		"UPDATE recipe_ingredients SET shopping_name = ?, shopping_qty = ?, shopping_unit = ? WHERE id = ?",
		nullString(strings.TrimSpace(name)), nullFloat(qty), nullString(strings.TrimSpace(unit)), ingredientID,
	)
	if err != nil {
		return fmt.Errorf("setting shopping form: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("ingredient %d: %w", ingredientID, ErrNotFound)
	}
	return nil
}

func (db *DB) queryIngredients(where string, args ...any) ([]RecipeIngredient, error) {
	rows, err := db.Query(
		`SELECT id, recipe_id, name, quantity, unit, estimated_price, shopping_name, shopping_qty, shopping_unit
		 FROM recipe_ingredients `+where, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("querying ingredients: %w", err)
	}
	defer rows.Close()

	var out []RecipeIngredient
	for rows.Next() {
		var ing RecipeIngredient
		var unit, shopName, shopUnit sql.NullString
		var qty, price, shopQty sql.NullFloat64
		if err := rows.Scan(&ing.ID, &ing.RecipeID, &ing.Name, &qty, &unit, &price, &shopName, &shopQty, &shopUnit); err != nil {
			return nil, fmt.Errorf("scanning ingredient: %w", err)
		}
		ing.Quantity = floatPtr(qty)
		ing.Unit = unit.String
		ing.EstimatedPrice = floatPtr(price)
		ing.ShoppingName = shopName.String
		ing.ShoppingQty = floatPtr(shopQty)
		ing.ShoppingUnit = shopUnit.String
		out = append(out, ing)
	}
	return out, rows.Err()
}
