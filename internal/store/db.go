package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

type DB struct {
	*sql.DB
}

// DefaultPath returns ~/.config/mealr/mealr.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mealr", "mealr.db"), nil
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	store := &DB{db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return store, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS stores (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			name     TEXT NOT NULL UNIQUE,
			location TEXT,
			notes    TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS pantry (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			name               TEXT NOT NULL,
			category           TEXT,
			location           TEXT,
			quantity           REAL DEFAULT 1,
			unit               TEXT,
			best_by            TEXT,
			preferred_store_id INTEGER REFERENCES stores(id) ON DELETE SET NULL,
			estimated_price    REAL
		)`,
		`CREATE TABLE IF NOT EXISTS recipes (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			name         TEXT NOT NULL,
			description  TEXT,
			servings     INTEGER DEFAULT 4,
			prep_time    TEXT,
			cook_time    TEXT,
			instructions TEXT,
			source_url   TEXT,
			tags         TEXT,
			rating       INTEGER,
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS recipe_ingredients (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			recipe_id       INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
			name            TEXT NOT NULL,
			quantity        REAL,
			unit            TEXT,
			estimated_price REAL,
			shopping_name   TEXT,
			shopping_qty    REAL,
			shopping_unit   TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS meal_plan (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			date      TEXT NOT NULL,
			meal_slot TEXT NOT NULL,
			recipe_id INTEGER REFERENCES recipes(id) ON DELETE SET NULL,
			servings  INTEGER NOT NULL DEFAULT 1,
			notes     TEXT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS meal_plan_date_slot ON meal_plan (date, meal_slot)`,
		`CREATE TABLE IF NOT EXISTS staples (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			name               TEXT NOT NULL UNIQUE,
			category           TEXT,
			preferred_store_id INTEGER REFERENCES stores(id) ON DELETE SET NULL,
			need_to_buy        INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS known_prices (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			item_name    TEXT NOT NULL UNIQUE,
			unit_price   REAL NOT NULL,
			unit         TEXT,
			store_id     INTEGER REFERENCES stores(id) ON DELETE SET NULL,
			last_updated DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	return nil
}

func (db *DB) GetState(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (db *DB) SetState(key, value string) error {
	_, err := db.Exec(
		"INSERT INTO state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func intPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
