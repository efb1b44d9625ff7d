package shopping

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Key identifies one aggregated line of demand.
type Key struct {
	Name string
	Unit string
}

// NormalizeName is the single normalization applied wherever names from
// recipes, pantry, staples and known prices are compared.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func NewKey(name, unit string) Key {
	return Key{Name: NormalizeName(name), Unit: NormalizeName(unit)}
}

// displayName title-cases a normalized ingredient name ("chicken breast" →
// "Chicken Breast"). A Caser is stateful, so one is built per call.
func displayName(name string) string {
	return cases.Title(language.English).String(name)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
