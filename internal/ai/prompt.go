package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"fmt"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
)

const normalizePrompt = `You are a grocery assistant. Convert recipe ingredients into their purchasable shopping form.

For each ingredient:
1. Strip preparation instructions (drained, minced, divided, chopped, room temperature, etc.)
2. Convert to how the item is purchased (e.g. "30oz black beans drained" -> "canned black beans", qty 2, unit "15oz cans")
3. Keep qualifiers that affect what you buy: canned, dry, fresh, frozen, whole, ground, etc.
4. Use common grocery units: lbs, oz, each, bunch, cans, bags, bottles, etc.
5. Normalize the name to a common grocery name (e.g. "garlic cloves" -> "garlic")

Return one item per input line with its index. Use shopping_qty 0 when the amount is unknown.
Return valid JSON matching the required schema.`

// responseSchema constrains normalization answers.
var responseSchema = generateSchema[normalizeResponse]()

func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func schemaJSON(s *jsonschema.Schema) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func buildUserPrompt(lines []IngredientLine) string {
	var sb strings.Builder
	sb.WriteString("Recipe ingredients:\n")
	for i, l := range lines {
		qty := "?"
		if l.Quantity != nil && *l.Quantity != 0 {
			qty = strconv.FormatFloat(*l.Quantity, 'g', -1, 64)
		}
		line := strings.TrimSpace(fmt.Sprintf("%d. %s %s %s", i, qty, l.Unit, l.Name))
		sb.WriteString(strings.Join(strings.Fields(line), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// align maps model items back onto the input order. Items without an index
// take their position; lines the model skipped get an empty form.
func align(n int, items []normalizedItem) []ShoppingForm {
	byIndex := make(map[int]normalizedItem, len(items))
	for i, it := range items {
		idx := i
		if it.Index != nil {
			idx = *it.Index
		}
		if _, seen := byIndex[idx]; !seen {
			byIndex[idx] = it
		}
	}

	out := make([]ShoppingForm, n)
	for i := range out {
		it, ok := byIndex[i]
		if !ok {
			continue
		}
		form := ShoppingForm{
			Name: strings.TrimSpace(it.ShoppingName),
			Unit: strings.TrimSpace(it.ShoppingUnit),
		}
		if it.ShoppingQty > 0 {
			q := it.ShoppingQty
			form.Quantity = &q
		}
		out[i] = form
	}
	return out
}

// normalizeWith runs one normalization request on p and aligns the answer
// with lines.
func normalizeWith(ctx context.Context, p Completer, logger *slog.Logger, lines []IngredientLine) ([]ShoppingForm, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	raw, err := p.Complete(ctx, Request{
		Name:        "shopping_forms",
		Description: "Purchasable shopping form of each recipe ingredient",
		System:      normalizePrompt,
		Prompt:      buildUserPrompt(lines),
		Schema:      responseSchema,
	})
	if err != nil {
		return nil, err
	}

	forms, err := parseResponse(raw, len(lines))
	if err != nil {
		logger.Error("failed to parse normalization", "error", err, "raw", truncateStr(raw, 2000))
		return nil, err
	}
	logger.Debug("normalized ingredients", "lines", len(lines), "forms", countNamed(forms))
	return forms, nil
}

func parseResponse(raw string, n int) ([]ShoppingForm, error) {
	var resp normalizeResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("parsing normalization: %w (raw: %s)", err, truncateStr(raw, 1000))
	}
	return align(n, resp.Items), nil
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
