package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"persona-orchestrator/internal/domain"
)

// CorpusLoader reads a corpus from a directory of source files.
type CorpusLoader interface {
	Load(dir string) (*domain.Corpus, error)
}

// LoadCorpusUsecase loads the corpus with an explicit cache keyed by the
// directory path. Reload purges the key and reads the directory fresh.
type LoadCorpusUsecase interface {
	Execute(ctx context.Context, dir string) (*domain.Corpus, error)
	Reload(ctx context.Context, dir string) (*domain.Corpus, error)
}

type loadCorpusUsecase struct {
	loader CorpusLoader
	cache  *expirable.LRU[string, *domain.Corpus]
	logger *slog.Logger
}

// NewLoadCorpusUsecase creates the cached corpus loader.
func NewLoadCorpusUsecase(loader CorpusLoader, cacheSize int, cacheTTL time.Duration, logger *slog.Logger) LoadCorpusUsecase {
	if cacheSize <= 0 {
		cacheSize = 4
	}
	return &loadCorpusUsecase{
		loader: loader,
		cache:  expirable.NewLRU[string, *domain.Corpus](cacheSize, nil, cacheTTL),
		logger: logger,
	}
}

func (u *loadCorpusUsecase) Execute(ctx context.Context, dir string) (*domain.Corpus, error) {
	if corpus, ok := u.cache.Get(dir); ok {
		return corpus, nil
	}
	return u.Reload(ctx, dir)
}

func (u *loadCorpusUsecase) Reload(_ context.Context, dir string) (*domain.Corpus, error) {
	u.cache.Remove(dir)
	corpus, err := u.loader.Load(dir)
	if err != nil {
		return nil, err
	}
	u.cache.Add(dir, corpus)
	u.logger.Info("corpus_cached",
		slog.String("dir", dir),
		slog.String("version", corpus.Version()),
		slog.Int("record_count", corpus.Len()))
	return corpus, nil
}
