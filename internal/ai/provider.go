package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/christopherklint97/mealr/internal/config"
	"github.com/invopop/jsonschema"
)

// Normalizer converts recipe ingredient lines into their purchasable form.
// The result has one entry per input line, in input order.
type Normalizer interface {
	NormalizeIngredients(ctx context.Context, lines []IngredientLine) ([]ShoppingForm, error)
}

// Completer answers a single prompt with JSON matching Request.Schema.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Provider is a model backend usable for every AI feature.
type Provider interface {
	Normalizer
	Completer
}

// Request is one structured-output prompt. Schema must describe a JSON
// object at the top level.
type Request struct {
	Name        string
	Description string
	System      string
	Prompt      string
	Schema      *jsonschema.Schema
}

// New builds the provider selected by cfg.Provider.
func New(cfg config.AIConfig, logger *slog.Logger) (Provider, error) {
	switch cfg.Provider {
	case "", "claude-cli":
		return NewClaudeCLI(cfg.Model, logger), nil
	case "openai":
		return NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model, logger)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
