package shopping

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// Snapshot is the read-only view of household state a generation runs over.
type Snapshot interface {
	PlannedMeals(start, end string) ([]PlannedMeal, error)
	PantryItems() ([]PantryItem, error)
	Staples() ([]Staple, error)
	KnownPrices() ([]KnownPrice, error)
}

// Generator builds shopping lists from a Snapshot. It keeps no mutable
// state, so one Generator may serve concurrent requests.
type Generator struct {
	snap   Snapshot
	logger *slog.Logger
}

func NewGenerator(snap Snapshot, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Generator{snap: snap, logger: logger}
}

type pantryIndex struct {
	qty    map[string]float64
	prices map[string]float64
	stores map[string]string
}

func indexPantry(items []PantryItem) pantryIndex {
	idx := pantryIndex{
		qty:    make(map[string]float64),
		prices: make(map[string]float64),
		stores: make(map[string]string),
	}
	for _, it := range items {
		name := NormalizeName(it.Name)
		var q float64
		if it.Quantity != nil {
			q = *it.Quantity
		}
		idx.qty[name] = q
		if it.EstimatedPrice != nil {
			idx.prices[name] = *it.EstimatedPrice
		}
		if _, ok := idx.stores[name]; !ok {
			idx.stores[name] = it.StoreName
		}
	}
	return idx
}

// Generate computes the shopping list for req.
func (g *Generator) Generate(req Request) (List, error) {
	meals, err := g.snap.PlannedMeals(req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("reading meal plan: %w", err)
	}

	demand := Aggregate(meals)
	if demand.Empty() {
		g.logger.Debug("no recipe demand in range", "start", req.Start, "end", req.End, "meals", len(meals))
		return List{}, nil
	}

	pantryItems, err := g.snap.PantryItems()
	if err != nil {
		return nil, fmt.Errorf("reading pantry: %w", err)
	}
	staples, err := g.snap.Staples()
	if err != nil {
		return nil, fmt.Errorf("reading staples: %w", err)
	}
	knownRows, err := g.snap.KnownPrices()
	if err != nil {
		return nil, fmt.Errorf("reading known prices: %w", err)
	}

	pantry := indexPantry(pantryItems)
	known := make(map[string]float64, len(knownRows))
	for _, kp := range knownRows {
		known[NormalizeName(kp.ItemName)] = kp.UnitPrice
	}
	onHandStaples := make(map[string]bool)
	var needed []Staple
	for _, s := range staples {
		if s.NeedToBuy {
			needed = append(needed, s)
		} else {
			onHandStaples[NormalizeName(s.Name)] = true
		}
	}

	resolver := defaultResolver(known, demand.RecipePrices, pantry.prices)
	list := make(List)

	for _, key := range demand.Keys {
		if onHandStaples[key.Name] {
			continue
		}

		buy := demand.Needed[key]
		if req.UsePantry {
			buy -= pantry.qty[key.Name]
		}
		if buy <= 0 {
			continue
		}

		item := LineItem{
			Name:     displayName(key.Name),
			Quantity: round2(buy),
			Unit:     key.Unit,
		}
		if price, source, ok := resolver.Resolve(key); ok {
			cost := round2(price * buy)
			item.Cost = &cost
			item.PriceSource = source
		}

		store := pantry.stores[key.Name]
		if store == "" {
			store = NoStoreAssigned
		}
		list[store] = append(list[store], item)
	}
	sortList(list)

	injectStaples(list, needed, known)
	sortList(list)

	g.logger.Debug("generated shopping list",
		"start", req.Start,
		"end", req.End,
		"use_pantry", req.UsePantry,
		"keys", len(demand.Keys),
		"stores", len(list),
		"items", list.Len(),
	)
	return list, nil
}

// injectStaples appends needed staples that no existing line already covers.
// Names are kept verbatim; the already-listed check compares normalized forms.
func injectStaples(list List, staples []Staple, known map[string]float64) {
	listed := make(map[string]bool)
	for _, items := range list {
		for _, it := range items {
			listed[NormalizeName(it.Name)] = true
		}
	}

	sort.SliceStable(staples, func(i, j int) bool { return staples[i].Name < staples[j].Name })
	for _, s := range staples {
		name := NormalizeName(s.Name)
		if listed[name] {
			continue
		}
		listed[name] = true

		item := LineItem{Name: s.Name, Quantity: 0, Unit: ""}
		if p, ok := known[name]; ok {
			price := p
			item.Cost = &price
			item.PriceSource = SourceKnown
		}

		store := strings.TrimSpace(s.StoreName)
		if store == "" {
			store = StaplesBucket
		}
		list[store] = append(list[store], item)
	}
}

func sortList(list List) {
	for _, items := range list {
		sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	}
}
