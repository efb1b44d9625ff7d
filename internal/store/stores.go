package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type Store struct {
	ID       int64
	Name     string
	Location string
	Notes    string
}

func (db *DB) AddStore(s *Store) (int64, error) {
	if strings.TrimSpace(s.Name) == "" {
		return 0, fmt.Errorf("adding store: name is required")
	}
	result, err := db.Exec(
		"INSERT INTO stores (name, location, notes) VALUES (?, ?, ?)",
		strings.TrimSpace(s.Name), nullString(s.Location), nullString(s.Notes),
	)
	if err != nil {
		return 0, fmt.Errorf("adding store: %w", err)
	}
	return result.LastInsertId()
}

func (db *DB) ListStores() ([]Store, error) {
	rows, err := db.Query("SELECT id, name, location, notes FROM stores ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}
	defer rows.Close()

	var stores []Store
	for rows.Next() {
		var s Store
		var location, notes sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &location, &notes); err != nil {
			return nil, fmt.Errorf("scanning store: %w", err)
		}
		s.Location = location.String
		s.Notes = notes.String
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

// StoreByName looks a store up case-insensitively.
func (db *DB) StoreByName(name string) (*Store, error) {
	var s Store
	var location, notes sql.NullString
	err := db.QueryRow(
		"SELECT id, name, location, notes FROM stores WHERE lower(name) = lower(?)",
		strings.TrimSpace(name),
	).Scan(&s.ID, &s.Name, &location, &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up store: %w", err)
	}
	s.Location = location.String
	s.Notes = notes.String
	return &s, nil
}

// resolveStoreID maps an optional store name to its id. An empty name
// yields a NULL reference.
func (db *DB) resolveStoreID(name string) (sql.NullInt64, error) {
	if strings.TrimSpace(name) == "" {
		return sql.NullInt64{}, nil
	}
	s, err := db.StoreByName(name)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: s.ID, Valid: true}, nil
}

// DeleteStore removes a store. Pantry, staple and price rows that referenced
// it keep existing with no store.
func (db *DB) DeleteStore(id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("deleting store: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		"UPDATE pantry SET preferred_store_id = NULL WHERE preferred_store_id = ?",
		"UPDATE staples SET preferred_store_id = NULL WHERE preferred_store_id = ?",
		"UPDATE known_prices SET store_id = NULL WHERE store_id = ?",
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("clearing store references: %w", err)
		}
	}

	result, err := tx.Exec("DELETE FROM stores WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting store: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("store %d: %w", id, ErrNotFound)
	}
	return tx.Commit()
}
