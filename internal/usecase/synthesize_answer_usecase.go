package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"persona-orchestrator/internal/domain"
)

// AnswerSynthesizer generates the persona-voiced answer from the accumulated
// pipeline state (stage 3).
type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, state PipelineState) (string, error)
}

type synthesizeAnswerUsecase struct {
	llmClient     domain.LLMClient
	promptBuilder PromptBuilder
	logger        *slog.Logger
}

// NewAnswerSynthesizer creates the synthesis stage.
func NewAnswerSynthesizer(llmClient domain.LLMClient, promptBuilder PromptBuilder, logger *slog.Logger) AnswerSynthesizer {
	return &synthesizeAnswerUsecase{
		llmClient:     llmClient,
		promptBuilder: promptBuilder,
		logger:        logger,
	}
}

func (u *synthesizeAnswerUsecase) Synthesize(ctx context.Context, state PipelineState) (string, error) {
	prompt, err := u.promptBuilder.Build(PromptInput{
		Question:    state.Question,
		PersonaName: state.PersonaName,
		ProductName: state.ProductName,
		History:     state.ChatHistory,
		Documents:   state.Documents,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build synthesis prompt: %w", err)
	}

	resp, err := u.llmClient.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("synthesis generation failed: %w", err)
	}

	// A blank or generic response is not an error; only the call failing is.
	answer := strings.TrimSpace(resp.Text)
	u.logger.Info("synthesis_completed",
		slog.String("run_id", state.RunID),
		slog.Int("document_count", len(state.Documents)),
		slog.Int("answer_chars", len(answer)))
	return answer, nil
}
