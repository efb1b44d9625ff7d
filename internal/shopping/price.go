package shopping

// Price source names, in cascade order.
const (
	SourceKnown  = "known"
	SourceRecipe = "recipe"
	SourcePantry = "pantry"
)

// PriceSource is one tier of the price cascade.
type PriceSource struct {
	Name   string
	Lookup func(Key) (float64, bool)
}

// PriceResolver tries its sources in order and returns the first hit.
type PriceResolver struct {
	sources []PriceSource
}

func NewPriceResolver(sources ...PriceSource) *PriceResolver {
	return &PriceResolver{sources: sources}
}

// Resolve returns the unit price for key and the name of the source that
// supplied it. ok is false when no source knows the item.
func (r *PriceResolver) Resolve(key Key) (price float64, source string, ok bool) {
	for _, s := range r.sources {
		if p, hit := s.Lookup(key); hit {
			return p, s.Name, true
		}
	}
	return 0, "", false
}

// ByName adapts a name-keyed price table into a lookup that ignores units.
func ByName(prices map[string]float64) func(Key) (float64, bool) {
	return func(k Key) (float64, bool) {
		p, ok := prices[k.Name]
		return p, ok
	}
}

// ByKey adapts a (name, unit)-keyed price table.
func ByKey(prices map[Key]float64) func(Key) (float64, bool) {
	return func(k Key) (float64, bool) {
		p, ok := prices[k]
		return p, ok
	}
}

// defaultResolver builds the receipt > recipe > pantry cascade.
func defaultResolver(known map[string]float64, recipe map[Key]float64, pantry map[string]float64) *PriceResolver {
	return NewPriceResolver(
		PriceSource{Name: SourceKnown, Lookup: ByName(known)},
		PriceSource{Name: SourceRecipe, Lookup: ByKey(recipe)},
		PriceSource{Name: SourcePantry, Lookup: ByName(pantry)},
	)
}
