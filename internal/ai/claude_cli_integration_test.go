//go:build integration

package ai_test

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/christopherklint97/mealr/internal/ai"
)

func skipIfNoClaude(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("claude"); err != nil {
		t.Skip("claude CLI not found in PATH, skipping integration test")
	}
}

// testLogger creates a verbose slog.Logger that writes to stderr
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func qty(v float64) *float64 { return &v }

var testLines = []ai.IngredientLine{
	{Name: "black beans, drained and rinsed", Quantity: qty(30), Unit: "oz"},
	{Name: "garlic cloves, minced", Quantity: qty(4)},
	{Name: "unsalted butter, room temperature", Quantity: qty(2), Unit: "tbsp"},
}

func TestClaudeCLI_NormalizeIngredients(t *testing.T) {
	skipIfNoClaude(t)

	cli := ai.NewClaudeCLI("haiku", testLogger(t))
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	forms, err := cli.NormalizeIngredients(ctx, testLines)
	if err != nil {
		t.Fatalf("NormalizeIngredients failed: %v", err)
	}
	if len(forms) != len(testLines) {
		t.Fatalf("expected %d forms, got %d", len(testLines), len(forms))
	}
	for i, f := range forms {
		t.Logf("%q -> %+v", testLines[i].Name, f)
		if f.Name == "" {
			t.Errorf("line %d: empty shopping name", i)
		}
		if strings.Contains(f.Name, "minced") || strings.Contains(f.Name, "drained") {
			t.Errorf("line %d: preparation left in %q", i, f.Name)
		}
	}
	if !strings.Contains(strings.ToLower(forms[1].Name), "garlic") {
		t.Errorf("expected garlic, got %q", forms[1].Name)
	}
}

func TestClaudeCLI_NormalizeIngredients_Streaming(t *testing.T) {
	skipIfNoClaude(t)

	cli := ai.NewClaudeCLI("haiku", testLogger(t))
	var chunks int
	cli.OnProgress = func(text string) {
		chunks++
		t.Logf("progress: %s", text)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	forms, err := cli.NormalizeIngredients(ctx, testLines[:1])
	if err != nil {
		t.Fatalf("NormalizeIngredients (streaming) failed: %v", err)
	}
	if len(forms) != 1 || forms[0].Name == "" {
		t.Fatalf("unexpected forms: %+v", forms)
	}
	t.Logf("received %d progress chunks", chunks)
}
