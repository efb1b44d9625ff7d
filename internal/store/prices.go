package store

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

type KnownPrice struct {
	ID          int64
	ItemName    string
	UnitPrice   float64
	Unit        string
	StoreName   string
	LastUpdated string
}

// UpsertPrice inserts or replaces the price for an item, matching names
// case-insensitively.
func (db *DB) UpsertPrice(p *KnownPrice) error {
	name := strings.TrimSpace(p.ItemName)
	if name == "" {
		return fmt.Errorf("setting price: item name is required")
	}
	if p.UnitPrice <= 0 {
		return fmt.Errorf("setting price for %q: price must be positive", name)
	}
	storeID, err := db.resolveStoreID(p.StoreName)
	if err != nil {
		return fmt.Errorf("setting price: %w", err)
	}
	return db.upsertPrice(db.DB, name, p.UnitPrice, p.Unit, storeID)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (db *DB) upsertPrice(ex execer, name string, price float64, unit string, storeID sql.NullInt64) error {
	res, err := ex.Exec(
		`UPDATE known_prices SET unit_price = ?, unit = ?, store_id = ?, last_updated = CURRENT_TIMESTAMP
		 WHERE lower(item_name) = lower(?)`,
		price, nullString(unit), storeID, name,
	)
	if err != nil {
		return fmt.Errorf("updating price: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	if _, err := ex.Exec(
		"INSERT INTO known_prices (item_name, unit_price, unit, store_id) VALUES (?, ?, ?, ?)",
		name, price, nullString(unit), storeID,
	); err != nil {
		return fmt.Errorf("inserting price: %w", err)
	}
	return nil
}

// BulkUpsertPrices writes all prices in one transaction.
func (db *DB) BulkUpsertPrices(prices []KnownPrice) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("importing prices: %w", err)
	}
	defer tx.Rollback()

	for _, p := range prices {
		storeID, err := db.resolveStoreID(p.StoreName)
		if err != nil {
			return fmt.Errorf("importing %q: %w", p.ItemName, err)
		}
		if err := db.upsertPrice(tx, strings.TrimSpace(p.ItemName), p.UnitPrice, p.Unit, storeID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (db *DB) ListPrices() ([]KnownPrice, error) {
	rows, err := db.Query(
		`SELECT kp.id, kp.item_name, kp.unit_price, kp.unit, s.name, kp.last_updated
		 FROM known_prices kp LEFT JOIN stores s ON s.id = kp.store_id
		 ORDER BY kp.item_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing prices: %w", err)
	}
	defer rows.Close()

	var prices []KnownPrice
	for rows.Next() {
		var p KnownPrice
		var unit, storeName, updated sql.NullString
		if err := rows.Scan(&p.ID, &p.ItemName, &p.UnitPrice, &unit, &storeName, &updated); err != nil {
			return nil, fmt.Errorf("scanning price: %w", err)
		}
		p.Unit = unit.String
		p.StoreName = storeName.String
		p.LastUpdated = updated.String
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

func (db *DB) PriceByName(name string) (*KnownPrice, error) {
	var p KnownPrice
	var unit sql.NullString
	err := db.QueryRow(
		"SELECT id, item_name, unit_price, unit FROM known_prices WHERE lower(item_name) = lower(?)",
		strings.TrimSpace(name),
	).Scan(&p.ID, &p.ItemName, &p.UnitPrice, &unit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("price %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up price: %w", err)
	}
	p.Unit = unit.String
	return &p, nil
}

func (db *DB) DeletePrice(name string) error {
	result, err := db.Exec("DELETE FROM known_prices WHERE lower(item_name) = lower(?)", strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("deleting price: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("price %q: %w", name, ErrNotFound)
	}
	return nil
}

// ParseKnownPricesCSV reads rows of item_name,unit_price[,unit[,store]].
// A header row and rows with a missing or non-positive price are skipped.
func ParseKnownPricesCSV(r io.Reader, logger *slog.Logger) ([]KnownPrice, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var prices []KnownPrice
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading price csv: %w", err)
		}
		line++
		if len(rec) < 2 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "item_name") {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil || price <= 0 {
			logger.Warn("skipping price row", "line", line, "item", rec[0], "price", rec[1])
			continue
		}
		p := KnownPrice{ItemName: strings.TrimSpace(rec[0]), UnitPrice: price}
		if len(rec) > 2 {
			p.Unit = strings.TrimSpace(rec[2])
		}
		if len(rec) > 3 {
			p.StoreName = strings.TrimSpace(rec[3])
		}
		prices = append(prices, p)
	}
	return prices, nil
}
