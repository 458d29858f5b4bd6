package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"persona-orchestrator/internal/domain"
)

// Generator sends free-form prompts to a Gemini generative model.
type Generator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	logger *slog.Logger
}

// NewGenerator creates a generator for the given model with the given
// sampling temperature and output-token cap.
func NewGenerator(ctx context.Context, apiKey, modelName string, temperature float32, maxOutputTokens int, logger *slog.Logger) (*Generator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	if maxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(maxOutputTokens))
	}
	return &Generator{
		client: client,
		model:  model,
		name:   modelName,
		logger: logger,
	}, nil
}

// Generate sends the prompt and returns the model's text. A blank response
// is returned as-is; only the call failing is an error.
func (g *Generator) Generate(ctx context.Context, prompt string) (*domain.LLMResponse, error) {
	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.logger.Error("gemini_generate_failed",
			slog.String("model", g.name),
			slog.String("error", err.Error()))
		return nil, &domain.ProviderError{Op: "generate", Err: err}
	}

	text := responseText(resp)
	g.logger.Info("gemini_generate_completed",
		slog.String("model", g.name),
		slog.Int("response_chars", len(text)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return &domain.LLMResponse{Text: text}, nil
}

// Version returns the wrapped model name.
func (g *Generator) Version() string {
	return g.name
}

// Close releases the underlying API client.
func (g *Generator) Close() error {
	return g.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}

var _ domain.LLMClient = (*Generator)(nil)
