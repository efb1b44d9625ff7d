package ai

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAI answers prompts through any OpenAI-compatible chat completions
// endpoint using strict JSON-schema output.
type OpenAI struct {
	Model  string
	client openai.Client
	logger *slog.Logger
}

func NewOpenAI(apiKey, baseURL, model string, logger *slog.Logger) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai provider requires an api key (set OPENAI_API_KEY or ai.api_key)")
	}
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{
		Model:  model,
		client: openai.NewClient(opts...),
		logger: logger,
	}, nil
}

func (o *OpenAI) NormalizeIngredients(ctx context.Context, lines []IngredientLine) ([]ShoppingForm, error) {
	return normalizeWith(ctx, o, o.logger, lines)
}

// Complete sends one chat completion with a strict JSON-schema response format.
func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	format := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   req.Name,
		Schema: req.Schema,
		Strict: openai.Bool(true),
	}
	if req.Description != "" {
		format.Description = openai.String(req.Description)
	}

	o.logger.Debug("requesting chat completion", "model", o.Model, "request", req.Name)

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: format},
		},
	})
	if err != nil {
		return "", fmt.Errorf("requesting %s: %w", req.Name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("requesting %s: empty response", req.Name)
	}
	o.logger.Debug("chat completion finished", "request", req.Name, "tokens", resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}
