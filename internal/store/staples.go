package store

import (
	"database/sql"
	"fmt"
	"strings"
)

type Staple struct {
	ID        int64
	Name      string
	Category  string
	StoreName string
	NeedToBuy bool
}

func (db *DB) AddStaple(s *Staple) (int64, error) {
	if strings.TrimSpace(s.Name) == "" {
		return 0, fmt.Errorf("adding staple: name is required")
	}
	storeID, err := db.resolveStoreID(s.StoreName)
	if err != nil {
		return 0, fmt.Errorf("adding staple: %w", err)
	}
	result, err := db.Exec(
		"INSERT INTO staples (name, category, preferred_store_id, need_to_buy) VALUES (?, ?, ?, ?)",
		strings.TrimSpace(s.Name), nullString(s.Category), storeID, s.NeedToBuy,
	)
	if err != nil {
		return 0, fmt.Errorf("adding staple: %w", err)
	}
	return result.LastInsertId()
}

func (db *DB) ListStaples() ([]Staple, error) {
	rows, err := db.Query(
		`SELECT st.id, st.name, st.category, s.name, st.need_to_buy
		 FROM staples st LEFT JOIN stores s ON s.id = st.preferred_store_id
		 ORDER BY st.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing staples: %w", err)
	}
	defer rows.Close()

	var staples []Staple
	for rows.Next() {
		var s Staple
		var category, storeName sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &category, &storeName, &s.NeedToBuy); err != nil {
			return nil, fmt.Errorf("scanning staple: %w", err)
		}
		s.Category = category.String
		s.StoreName = storeName.String
		staples = append(staples, s)
	}
	return staples, rows.Err()
}

// SetNeedToBuy flips the need-to-buy flag of the staple named name.
func (db *DB) SetNeedToBuy(name string, need bool) error {
	result, err := db.Exec(
		"UPDATE staples SET need_to_buy = ? WHERE lower(name) = lower(?)",
		need, strings.TrimSpace(name),
	)
	if err != nil {
		return fmt.Errorf("updating staple: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("staple %q: %w", name, ErrNotFound)
	}
	return nil
}

func (db *DB) DeleteStaple(name string) error {
	result, err := db.Exec("DELETE FROM staples WHERE lower(name) = lower(?)", strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("deleting staple: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("staple %q: %w", name, ErrNotFound)
	}
	return nil
}
