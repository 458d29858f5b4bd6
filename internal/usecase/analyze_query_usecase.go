package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"persona-orchestrator/internal/domain"
)

// Search-query bounds enforced on the analyzer's structured output.
const (
	minSearchQueries = 2
	maxSearchQueries = 3
)

// QueryAnalyzer expands one user question (plus history) into optimized
// search queries via structured generation (stage 1).
type QueryAnalyzer interface {
	Analyze(ctx context.Context, question string, history []domain.ChatTurn) ([]string, error)
}

type analyzeQueryUsecase struct {
	structured domain.StructuredClient
	logger     *slog.Logger
}

// NewQueryAnalyzer creates the query-analysis stage on top of a structured
// generation client.
func NewQueryAnalyzer(structured domain.StructuredClient, logger *slog.Logger) QueryAnalyzer {
	return &analyzeQueryUsecase{
		structured: structured,
		logger:     logger,
	}
}

func (u *analyzeQueryUsecase) Analyze(ctx context.Context, question string, history []domain.ChatTurn) ([]string, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question is required")
	}

	prompt := buildAnalyzerPrompt(question, history)
	queries, err := u.structured.GenerateStringList(ctx, prompt, minSearchQueries, maxSearchQueries)
	if err != nil {
		// Malformed shapes and provider failures both propagate; the
		// pipeline never substitutes a silent empty-query fallback.
		return nil, fmt.Errorf("query analysis failed: %w", err)
	}

	u.logger.Info("query_analysis_completed",
		slog.String("question", truncate(question, 120)),
		slog.Any("search_queries", queries))
	return queries, nil
}

func buildAnalyzerPrompt(question string, history []domain.ChatTurn) string {
	var sb strings.Builder
	sb.WriteString("You are a search specialist. Analyze the user's question in light of the conversation history ")
	sb.WriteString("and generate 2 to 3 diversified, disambiguated search query variations that together cover the ")
	sb.WriteString("question's intent. Resolve pronouns and follow-up references using the history. ")
	sb.WriteString("Keep each query in the language of the question.\n\n")

	sb.WriteString("<history>\n")
	for _, turn := range history {
		sb.WriteString(turn.Role)
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("</history>\n\n")

	sb.WriteString("<question>\n")
	sb.WriteString(question)
	sb.WriteString("\n</question>\n")
	return sb.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
