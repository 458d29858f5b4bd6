package di

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"persona-orchestrator/internal/adapter/corpuscsv"
	"persona-orchestrator/internal/adapter/gemini"
	"persona-orchestrator/internal/adapter/persona_http"
	"persona-orchestrator/internal/domain"
	"persona-orchestrator/internal/infra/config"
	"persona-orchestrator/internal/usecase"
	"persona-orchestrator/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Usecases
	LoadCorpusUsecase         usecase.LoadCorpusUsecase
	BuildTopicIndexUsecase    usecase.BuildTopicIndexUsecase
	SuggestedQuestionsUsecase usecase.SuggestedQuestionsUsecase

	// Pipeline factory: one pipeline per built topic index
	PipelineFactory persona_http.PipelineFactory

	// HTTP surface
	Handler *persona_http.Handler

	// Worker
	Warmer *worker.IndexWarmer

	closers []io.Closer
}

// NewApplicationComponents wires all dependencies from config.
func NewApplicationComponents(ctx context.Context, cfg *config.Config, log *slog.Logger) (*ApplicationComponents, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	// Provider clients
	embedder, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel, cfg.EmbedRatePerSecond, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	analyzerClient, err := gemini.NewStructuredListClient(ctx, cfg.GeminiAPIKey, cfg.AnalyzerModel, float32(cfg.AnalyzerTemperature), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer client: %w", err)
	}
	suggestionsClient, err := gemini.NewStructuredListClient(ctx, cfg.GeminiAPIKey, cfg.AnalyzerModel, float32(cfg.SuggestionsTemperature), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestions client: %w", err)
	}
	synthesizerClient, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.SynthesisModel, float32(cfg.SynthesisTemperature), cfg.MaxOutputTokens, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis client: %w", err)
	}

	// Corpus loading and topic indexing
	loader := corpuscsv.NewLoader(cfg.OfficialFilename, log)
	loadCorpus := usecase.NewLoadCorpusUsecase(
		loader, cfg.CorpusCacheSize, time.Duration(cfg.CorpusCacheTTL)*time.Minute, log)

	searchParams := domain.SearchParams{
		K:      cfg.SearchK,
		FetchK: cfg.SearchFetchK,
		Lambda: cfg.MMRLambda,
	}
	buildIndex := usecase.NewBuildTopicIndexUsecase(
		embedder, searchParams, cfg.GeminiAPIKey,
		cfg.IndexCacheSize, time.Duration(cfg.IndexCacheTTL)*time.Minute, log)

	// Pipeline stages
	analyzer := usecase.NewQueryAnalyzer(analyzerClient, log)
	retriever := usecase.NewDocumentRetriever(log)
	promptBuilder := usecase.NewPersonaPromptBuilder(
		fmt.Sprintf("Answer in %s.", cfg.AnswerLanguage))
	synthesizer := usecase.NewAnswerSynthesizer(synthesizerClient, promptBuilder, log)

	pipelineFactory := func(index domain.Retriever) (usecase.AnswerQuestionUsecase, error) {
		return usecase.NewAnswerQuestionUsecase(analyzer, retriever, synthesizer, index, log)
	}

	suggestions := usecase.NewSuggestedQuestionsUsecase(
		suggestionsClient, cfg.IndexCacheSize, time.Duration(cfg.IndexCacheTTL)*time.Minute, log)

	handler := persona_http.NewHandler(
		loadCorpus, buildIndex, suggestions, pipelineFactory,
		cfg.CorpusDir, cfg.PersonaFor, log)

	warmer := worker.NewIndexWarmer(loadCorpus, buildIndex, cfg.CorpusDir, cfg.WarmupProducts, log)

	return &ApplicationComponents{
		LoadCorpusUsecase:         loadCorpus,
		BuildTopicIndexUsecase:    buildIndex,
		SuggestedQuestionsUsecase: suggestions,
		PipelineFactory:           pipelineFactory,
		Handler:                   handler,
		Warmer:                    warmer,
		closers:                   []io.Closer{embedder, analyzerClient, suggestionsClient, synthesizerClient},
	}, nil
}

// Close releases the provider API clients.
func (c *ApplicationComponents) Close() error {
	var firstErr error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
