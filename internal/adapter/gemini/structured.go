package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"persona-orchestrator/internal/domain"
)

// stringListSchema constrains the model to emit a JSON array of strings.
var stringListSchema = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}

// StructuredListClient runs generation constrained to a JSON string-list
// schema and validates the result against the caller's item bounds.
type StructuredListClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	logger *slog.Logger
}

// NewStructuredListClient creates a structured client for the given model.
func NewStructuredListClient(ctx context.Context, apiKey, modelName string, temperature float32, logger *slog.Logger) (*StructuredListClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.GenerationConfig.ResponseSchema = stringListSchema
	return &StructuredListClient{
		client: client,
		model:  model,
		name:   modelName,
		logger: logger,
	}, nil
}

// GenerateStringList sends the prompt and parses the schema-constrained
// response. A response that is not a JSON list of minItems..maxItems
// non-empty strings yields ErrMalformedStructuredOutput.
func (c *StructuredListClient) GenerateStringList(ctx context.Context, prompt string, minItems, maxItems int) ([]string, error) {
	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.Error("gemini_structured_failed",
			slog.String("model", c.name),
			slog.String("error", err.Error()))
		return nil, &domain.ProviderError{Op: "generate_structured", Err: err}
	}

	items, err := parseStringList(responseText(resp), minItems, maxItems)
	if err != nil {
		c.logger.Warn("gemini_structured_malformed",
			slog.String("model", c.name),
			slog.String("error", err.Error()))
		return nil, err
	}

	c.logger.Info("gemini_structured_completed",
		slog.String("model", c.name),
		slog.Int("item_count", len(items)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return items, nil
}

// parseStringList validates raw model output against the string-list shape.
func parseStringList(raw string, minItems, maxItems int) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty response: %w", domain.ErrMalformedStructuredOutput)
	}

	var items []string
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, fmt.Errorf("failed to parse response as string list: %w", domain.ErrMalformedStructuredOutput)
	}

	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) < minItems || len(cleaned) > maxItems {
		return nil, fmt.Errorf("expected %d to %d items, got %d: %w",
			minItems, maxItems, len(cleaned), domain.ErrMalformedStructuredOutput)
	}
	return cleaned, nil
}

// Version returns the wrapped model name.
func (c *StructuredListClient) Version() string {
	return c.name
}

// Close releases the underlying API client.
func (c *StructuredListClient) Close() error {
	return c.client.Close()
}

var _ domain.StructuredClient = (*StructuredListClient)(nil)
