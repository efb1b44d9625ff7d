package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// nestedSessionVars are stripped from the subprocess environment so the
// claude CLI does not refuse to start inside another session.
var nestedSessionVars = map[string]bool{
	"CLAUDECODE":                           true,
	"CLAUDE_CODE_ENTRYPOINT":               true,
	"CLAUDE_CODE_EXPERIMENTAL_AGENT_TEAMS": true,
}

func cleanEnv() []string {
	var env []string
	for _, e := range os.Environ() {
		key, _, _ := strings.Cut(e, "=")
		if !nestedSessionVars[key] {
			env = append(env, e)
		}
	}
	return env
}

// ClaudeCLI answers prompts by shelling out to the claude CLI with a JSON
// schema for structured output.
type ClaudeCLI struct {
	Model      string
	Binary     string
	OnProgress func(text string) // optional: receives streamed text chunks
	logger     *slog.Logger
}

func NewClaudeCLI(model string, logger *slog.Logger) *ClaudeCLI {
	if model == "" {
		model = "haiku"
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ClaudeCLI{Model: model, Binary: "claude", logger: logger}
}

func (c *ClaudeCLI) NormalizeIngredients(ctx context.Context, lines []IngredientLine) ([]ShoppingForm, error) {
	return normalizeWith(ctx, c, c.logger, lines)
}

// Complete runs one claude CLI session constrained to req.Schema.
func (c *ClaudeCLI) Complete(ctx context.Context, req Request) (string, error) {
	schema := schemaJSON(req.Schema)
	args := []string{
		"-p", req.Prompt,
		"--output-format", "json",
		"--model", c.Model,
		"--system-prompt", req.System,
		"--json-schema", schema,
		"--no-session-persistence",
		"--effort", "low",
	}

	c.logger.Debug("invoking claude CLI",
		"model", c.Model,
		"request", req.Name,
		"user_prompt_len", len(req.Prompt),
		"schema_len", len(schema),
		"streaming", c.OnProgress != nil,
	)

	if c.OnProgress != nil {
		return c.runStreaming(ctx, args)
	}
	return c.runBuffered(ctx, args)
}

func countNamed(forms []ShoppingForm) int {
	n := 0
	for _, f := range forms {
		if f.Name != "" {
			n++
		}
	}
	return n
}

func (c *ClaudeCLI) command(ctx context.Context, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.Env = cleanEnv()
	return cmd
}

func (c *ClaudeCLI) runBuffered(ctx context.Context, args []string) (string, error) {
	cmd := c.command(ctx, args)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err := cmd.Run()
	elapsed := time.Since(started)
	c.logger.Debug("claude CLI finished", "elapsed", elapsed, "stdout_bytes", stdout.Len(), "error", err)

	if err != nil {
		return "", c.runError(ctx, err, elapsed, stderr.String())
	}
	return unwrapEnvelope(stdout.Bytes()), nil
}

// streamEvent is one line of --output-format stream-json.
type streamEvent struct {
	Type             string          `json:"type"`
	Result           json.RawMessage `json:"result,omitempty"`
	StructuredOutput json.RawMessage `json:"structured_output,omitempty"`
	Delta            struct {
		Text string `json:"text,omitempty"`
	} `json:"delta"`
	Message struct {
		Content []struct {
			Type string `json:"type,omitempty"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"message"`
}

func (c *ClaudeCLI) runStreaming(ctx context.Context, args []string) (string, error) {
	streamArgs := make([]string, 0, len(args)+1)
	for i, a := range args {
		if a == "json" && i > 0 && args[i-1] == "--output-format" {
			a = "stream-json"
		}
		streamArgs = append(streamArgs, a)
	}
	streamArgs = append(streamArgs, "--verbose")

	cmd := c.command(ctx, streamArgs)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("creating stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("starting claude CLI: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var result string
	for scanner.Scan() {
		var ev streamEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}
		switch ev.Type {
		case "content_block_delta":
			if ev.Delta.Text != "" {
				c.OnProgress(ev.Delta.Text)
			}
		case "assistant":
			for _, block := range ev.Message.Content {
				if block.Type == "text" && block.Text != "" {
					c.OnProgress(block.Text)
				}
			}
		case "result":
			result = unwrapEnvelope(scanner.Bytes())
		}
	}

	elapsed := time.Since(started)
	if err := cmd.Wait(); err != nil {
		return "", c.runError(ctx, err, elapsed, stderr.String())
	}
	if result == "" {
		return "", fmt.Errorf("no result received from claude CLI stream")
	}
	return result, nil
}

func (c *ClaudeCLI) runError(ctx context.Context, err error, elapsed time.Duration, stderr string) error {
	c.logger.Error("claude CLI failed", "error", err, "elapsed", elapsed, "stderr", stderr)
	if ctx.Err() != nil {
		return fmt.Errorf("claude CLI timed out after %s", elapsed.Truncate(time.Second))
	}
	return fmt.Errorf("running claude CLI: %w (stderr: %s)", err, stderr)
}

// unwrapEnvelope extracts the model answer from a claude CLI JSON envelope,
// preferring structured_output over result. Output that is not an envelope
// is returned unchanged.
func unwrapEnvelope(raw []byte) string {
	var env struct {
		Result           json.RawMessage `json:"result"`
		StructuredOutput json.RawMessage `json:"structured_output"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return string(raw)
	}
	if len(env.StructuredOutput) > 0 && env.StructuredOutput[0] == '{' {
		return string(env.StructuredOutput)
	}
	if len(env.Result) > 0 {
		var s string
		if err := json.Unmarshal(env.Result, &s); err == nil && s != "" {
			return s
		}
		if env.Result[0] == '{' || env.Result[0] == '[' {
			return string(env.Result)
		}
	}
	return string(raw)
}
