package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"persona-orchestrator/internal/domain"
	"persona-orchestrator/internal/usecase"
)

// IndexWarmer pre-builds topic indexes for the configured products at
// startup so first questions don't pay the embedding cost. Failures are
// logged and never fatal; the handler builds lazily for anything missed.
type IndexWarmer struct {
	loadCorpus usecase.LoadCorpusUsecase
	buildIndex usecase.BuildTopicIndexUsecase
	corpusDir  string
	products   []string
	logger     *slog.Logger
}

func NewIndexWarmer(
	loadCorpus usecase.LoadCorpusUsecase,
	buildIndex usecase.BuildTopicIndexUsecase,
	corpusDir string,
	products []string,
	logger *slog.Logger,
) *IndexWarmer {
	return &IndexWarmer{
		loadCorpus: loadCorpus,
		buildIndex: buildIndex,
		corpusDir:  corpusDir,
		products:   products,
		logger:     logger,
	}
}

// Run warms every configured product index. Concurrency is capped to keep
// embedding traffic inside the provider quota.
func (w *IndexWarmer) Run(ctx context.Context) {
	if len(w.products) == 0 {
		return
	}
	start := time.Now()

	corpus, err := w.loadCorpus.Execute(ctx, w.corpusDir)
	if err != nil {
		w.logger.Warn("index_warmup_skipped", slog.String("reason", err.Error()))
		return
	}
	if corpus.IsEmpty() {
		w.logger.Warn("index_warmup_skipped", slog.String("reason", "corpus is empty"))
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for _, product := range w.products {
		product := product
		g.Go(func() error {
			if _, err := w.buildIndex.Execute(gctx, corpus, product); err != nil {
				if errors.Is(err, domain.ErrNoTopicData) {
					w.logger.Warn("index_warmup_no_data", slog.String("product", product))
					return nil
				}
				w.logger.Warn("index_warmup_failed",
					slog.String("product", product),
					slog.String("error", err.Error()))
			}
			return nil
		})
	}
	_ = g.Wait()

	w.logger.Info("index_warmup_completed",
		slog.Int("product_count", len(w.products)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
}
