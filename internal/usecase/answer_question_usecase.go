package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"persona-orchestrator/internal/domain"
	"persona-orchestrator/internal/infra/logger"
)

// AnswerQuestionInput encapsulates one question turn against a persona.
type AnswerQuestionInput struct {
	Question    string
	ChatHistory []domain.ChatTurn
	ProductName string
	PersonaName string
}

// AnswerQuestionOutput is the pipeline result returned to callers, carrying
// the supporting documents so provenance can be rendered with the answer.
type AnswerQuestionOutput struct {
	FinalAnswer   string
	Documents     []domain.Record
	SearchQueries []string
	RunID         string
}

// AnswerQuestionUsecase runs the fixed three-stage persona pipeline:
// query analysis, retrieval, synthesis.
type AnswerQuestionUsecase interface {
	Execute(ctx context.Context, input AnswerQuestionInput) (*AnswerQuestionOutput, error)
}

type answerQuestionUsecase struct {
	analyzer    QueryAnalyzer
	retriever   DocumentRetriever
	synthesizer AnswerSynthesizer
	index       domain.Retriever
	logger      *slog.Logger
}

// NewAnswerQuestionUsecase wires the three stages against one built topic
// index. A nil index is a construction error: the topic had no data and no
// stage may run.
func NewAnswerQuestionUsecase(
	analyzer QueryAnalyzer,
	retriever DocumentRetriever,
	synthesizer AnswerSynthesizer,
	index domain.Retriever,
	logger *slog.Logger,
) (AnswerQuestionUsecase, error) {
	if index == nil {
		return nil, fmt.Errorf("cannot build pipeline: %w", domain.ErrNoTopicData)
	}
	return &answerQuestionUsecase{
		analyzer:    analyzer,
		retriever:   retriever,
		synthesizer: synthesizer,
		index:       index,
		logger:      logger,
	}, nil
}

func (u *answerQuestionUsecase) Execute(ctx context.Context, input AnswerQuestionInput) (*AnswerQuestionOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, fmt.Errorf("question is required")
	}

	state := PipelineState{
		RunID:       uuid.NewString(),
		Question:    input.Question,
		ChatHistory: input.ChatHistory,
		ProductName: input.ProductName,
		PersonaName: input.PersonaName,
	}
	ctx = logger.WithRunID(ctx, state.RunID)
	ctx = logger.WithProduct(ctx, state.ProductName)

	queries, err := u.analyzer.Analyze(logger.WithStage(ctx, "analyze"), state.Question, state.ChatHistory)
	if err != nil {
		return nil, err
	}
	state = state.WithSearchQueries(queries)

	docs, err := u.retriever.Retrieve(logger.WithStage(ctx, "retrieve"), state.SearchQueries, u.index)
	if err != nil {
		return nil, err
	}
	// Empty docs still reach synthesis: the persona admits not knowing
	// instead of the pipeline short-circuiting.
	state = state.WithDocuments(docs)

	answer, err := u.synthesizer.Synthesize(logger.WithStage(ctx, "synthesize"), state)
	if err != nil {
		return nil, err
	}
	state = state.WithFinalAnswer(answer)

	u.logger.InfoContext(ctx, "pipeline_completed",
		slog.String("run_id", state.RunID),
		slog.String("product", state.ProductName),
		slog.Int("query_count", len(state.SearchQueries)),
		slog.Int("document_count", len(state.Documents)))

	return &AnswerQuestionOutput{
		FinalAnswer:   state.FinalAnswer,
		Documents:     state.Documents,
		SearchQueries: state.SearchQueries,
		RunID:         state.RunID,
	}, nil
}
