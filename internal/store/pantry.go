package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/christopherklint97/mealr/internal/dates"
)

type PantryItem struct {
	ID             int64
	Name           string
	Category       string
	Location       string
	Quantity       *float64
	Unit           string
	BestBy         string
	StoreName      string
	EstimatedPrice *float64
}

// AddPantryItem inserts an item. StoreName, when set, must name an existing store.
func (db *DB) AddPantryItem(p *PantryItem) (int64, error) {
	if strings.TrimSpace(p.Name) == "" {
		return 0, fmt.Errorf("adding pantry item: name is required")
	}
	if p.BestBy != "" {
		if _, err := time.Parse(dates.Layout, p.BestBy); err != nil {
			return 0, fmt.Errorf("adding pantry item: best-by %q: %w", p.BestBy, ErrInvalidDate)
		}
	}
	storeID, err := db.resolveStoreID(p.StoreName)
	if err != nil {
		return 0, fmt.Errorf("adding pantry item: %w", err)
	}

	result, err := db.Exec(
		`INSERT INTO pantry (name, category, location, quantity, unit, best_by, preferred_store_id, estimated_price)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(p.Name), nullString(p.Category), nullString(p.Location),
		nullFloat(p.Quantity), nullString(p.Unit), nullString(p.BestBy),
		storeID, nullFloat(p.EstimatedPrice),
	)
	if err != nil {
		return 0, fmt.Errorf("adding pantry item: %w", err)
	}
	return result.LastInsertId()
}

// ListPantry returns items in insertion order so later duplicates follow
// earlier ones.
func (db *DB) ListPantry() ([]PantryItem, error) {
	return db.queryPantry(
		`SELECT p.id, p.name, p.category, p.location, p.quantity, p.unit, p.best_by, s.name, p.estimated_price
		 FROM pantry p LEFT JOIN stores s ON s.id = p.preferred_store_id
		 ORDER BY p.id`,
	)
}

// ExpiringSoon returns items whose best-by date falls within days of now,
// including already expired ones.
func (db *DB) ExpiringSoon(now time.Time, days int) ([]PantryItem, error) {
	cutoff := now.AddDate(0, 0, days).Format(dates.Layout)
	return db.queryPantry(
		`SELECT p.id, p.name, p.category, p.location, p.quantity, p.unit, p.best_by, s.name, p.estimated_price
		 FROM pantry p LEFT JOIN stores s ON s.id = p.preferred_store_id
		 WHERE p.best_by IS NOT NULL AND p.best_by <= ?
		 ORDER BY p.best_by, p.name`,
		cutoff,
	)
}

func (db *DB) DeletePantryItem(id int64) error {
	result, err := db.Exec("DELETE FROM pantry WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting pantry item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("pantry item %d: %w", id, ErrNotFound)
	}
	return nil
}

func (db *DB) queryPantry(query string, args ...any) ([]PantryItem, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pantry: %w", err)
	}
	defer rows.Close()

	var items []PantryItem
	for rows.Next() {
		var p PantryItem
		var category, location, unit, bestBy, storeName sql.NullString
		var qty, price sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.Name, &category, &location, &qty, &unit, &bestBy, &storeName, &price); err != nil {
			return nil, fmt.Errorf("scanning pantry item: %w", err)
		}
		p.Category = category.String
		p.Location = location.String
		p.Quantity = floatPtr(qty)
		p.Unit = unit.String
		p.BestBy = bestBy.String
		p.StoreName = storeName.String
		p.EstimatedPrice = floatPtr(price)
		items = append(items, p)
	}
	return items, rows.Err()
}
