package shopping

import (
	"fmt"
	"strconv"
	"strings"
)

// EmptyText is what Format returns for a list with no stores.
const EmptyText = "No items needed."

// FormatQuantity renders a quantity without trailing zeros ("2", "1.5").
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// Format renders the list as plain text for clipboard or file export.
// Stores are sorted by name; subtotals and the grand total only appear when
// at least one item carries a cost.
func Format(list List) string {
	if len(list) == 0 {
		return EmptyText
	}

	var sb strings.Builder
	var total float64
	hasTotal := false

	for _, store := range list.Stores() {
		fmt.Fprintf(&sb, "=== %s ===\n", store)

		var subtotal float64
		priced := false
		for _, it := range list[store] {
			sb.WriteString("  [ ] ")
			sb.WriteString(it.Name)
			if it.Quantity > 0 {
				qty := strings.TrimSpace(FormatQuantity(it.Quantity) + " " + it.Unit)
				sb.WriteString(" — ")
				sb.WriteString(qty)
			}
			if it.Cost != nil {
				fmt.Fprintf(&sb, "  $%.2f", *it.Cost)
				subtotal += *it.Cost
				priced = true
			}
			sb.WriteString("\n")
		}

		if priced {
			fmt.Fprintf(&sb, "  Store subtotal: $%.2f\n", subtotal)
			total += subtotal
			hasTotal = true
		}
		sb.WriteString("\n")
	}

	if hasTotal {
		fmt.Fprintf(&sb, "Estimated total: $%.2f", total)
	}

	return strings.TrimSpace(sb.String())
}
