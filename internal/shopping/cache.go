package shopping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"
)

const (
	cacheKey = "saved_shopping_list"

	// cacheVersion is bumped whenever the payload layout changes. Payloads
	// written by a newer version are ignored; unversioned payloads predate
	// the tag and are still read, list items in their tuple form included.
	cacheVersion = 2

	// sourceArity is the element count of one encoded Source tuple.
	sourceArity = 6

	// lineItemArity is the element count of an unversioned list item tuple:
	// name, quantity, unit, cost.
	lineItemArity = 4
)

// StateStore is a single-slot key/value backend.
type StateStore interface {
	GetState(key string) (string, error)
	SetState(key, value string) error
}

// Bundle is the last generated list together with the parameters that
// produced it.
type Bundle struct {
	List      List      `json:"shopping"`
	Trace     Trace     `json:"ingredient_sources"`
	Start     string    `json:"start_date"`
	End       string    `json:"end_date"`
	UsePantry bool      `json:"use_pantry"`
	SavedAt   time.Time `json:"saved_at"`
}

type cachePayload struct {
	Version           int                          `json:"version"`
	ShoppingData      List                         `json:"shopping_data"`
	IngredientSources map[string][]json.RawMessage `json:"ingredient_sources"`
	StartDate         string                       `json:"start_date"`
	EndDate           string                       `json:"end_date"`
	UsePantry         bool                         `json:"use_pantry"`
	SavedAt           time.Time                    `json:"saved_at,omitempty"`
}

// Cache persists the most recent Bundle in one state slot. Concurrent saves
// are last-writer-wins.
type Cache struct {
	state  StateStore
	logger *slog.Logger
	now    func() time.Time
}

func NewCache(state StateStore, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache{state: state, logger: logger, now: time.Now}
}

func (c *Cache) Save(b Bundle) error {
	payload := cachePayload{
		Version:           cacheVersion,
		ShoppingData:      b.List,
		IngredientSources: make(map[string][]json.RawMessage, len(b.Trace)),
		StartDate:         b.Start,
		EndDate:           b.End,
		UsePantry:         b.UsePantry,
		SavedAt:           c.now().UTC(),
	}
	if payload.ShoppingData == nil {
		payload.ShoppingData = List{}
	}

	for name, sources := range b.Trace {
		encoded := make([]json.RawMessage, 0, len(sources))
		for _, s := range sources {
			raw, err := json.Marshal([]any{s.RecipeID, s.RecipeName, s.Date, s.Slot, s.Quantity, s.Unit})
			if err != nil {
				return fmt.Errorf("encoding source for %q: %w", name, err)
			}
			encoded = append(encoded, raw)
		}
		payload.IngredientSources[name] = encoded
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding shopping list cache: %w", err)
	}
	if err := c.state.SetState(cacheKey, string(data)); err != nil {
		return fmt.Errorf("saving shopping list cache: %w", err)
	}
	return nil
}

// Load returns the cached bundle, or nil when the slot is empty, unreadable
// as a payload, or written by a newer version.
func (c *Cache) Load() (*Bundle, error) {
	raw, err := c.state.GetState(cacheKey)
	if err != nil {
		return nil, fmt.Errorf("reading shopping list cache: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var payload cachePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		c.logger.Warn("discarding unparseable shopping list cache", "error", err)
		return nil, nil
	}
	if payload.Version > cacheVersion {
		c.logger.Warn("discarding shopping list cache from newer version",
			"version", payload.Version, "supported", cacheVersion)
		return nil, nil
	}

	b := &Bundle{
		List:      payload.ShoppingData,
		Trace:     make(Trace),
		Start:     payload.StartDate,
		End:       payload.EndDate,
		UsePantry: payload.UsePantry,
		SavedAt:   payload.SavedAt,
	}
	if b.List == nil {
		b.List = List{}
	}

	for name, tuples := range payload.IngredientSources {
		sources, ok := c.decodeSources(name, tuples)
		if ok {
			b.Trace[name] = sources
		}
	}
	return b, nil
}

// decodeSources drops the whole key when its first tuple has the wrong
// arity, and skips individual tuples whose fields do not decode.
func (c *Cache) decodeSources(name string, tuples []json.RawMessage) ([]Source, bool) {
	if len(tuples) == 0 {
		return nil, false
	}

	var sources []Source
	for i, raw := range tuples {
		var fields []json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil || len(fields) != sourceArity {
			if i == 0 {
				c.logger.Debug("dropping stale ingredient sources", "ingredient", name)
				return nil, false
			}
			continue
		}

		var s Source
		if err := decodeFields(fields, &s.RecipeID, &s.RecipeName, &s.Date, &s.Slot, &s.Quantity, &s.Unit); err != nil {
			c.logger.Debug("skipping malformed ingredient source", "ingredient", name, "error", err)
			continue
		}
		sources = append(sources, s)
	}
	return sources, len(sources) > 0
}

func decodeFields(fields []json.RawMessage, dst ...any) error {
	for i, d := range dst {
		if err := json.Unmarshal(fields[i], d); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
	}
	return nil
}

// UnmarshalJSON reads both the object form written by Save and the
// [name, quantity, unit, cost] tuples of unversioned payloads.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var fields []json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return err
		}
		if len(fields) != lineItemArity {
			return fmt.Errorf("list item has %d fields, want %d", len(fields), lineItemArity)
		}
		var item LineItem
		if err := decodeFields(fields, &item.Name, &item.Quantity, &item.Unit, &item.Cost); err != nil {
			return fmt.Errorf("list item: %w", err)
		}
		*li = item
		return nil
	}

	type plain LineItem
	return json.Unmarshal(data, (*plain)(li))
}

// Clear empties the cache slot.
func (c *Cache) Clear() error {
	if err := c.state.SetState(cacheKey, ""); err != nil {
		return fmt.Errorf("clearing shopping list cache: %w", err)
	}
	return nil
}
