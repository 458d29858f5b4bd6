package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"persona-orchestrator/internal/domain"
)

// BuildTopicIndexUsecase filters the corpus to one topic, embeds each record
// and returns a searchable index. Built indexes are cached keyed by
// (corpus version, topic, credential fingerprint) so repeat questions don't
// pay the embedding cost; the cache is invalidated by TTL or corpus reload
// (a reloaded corpus gets a new version, so old keys simply age out).
type BuildTopicIndexUsecase interface {
	Execute(ctx context.Context, corpus *domain.Corpus, topic string) (domain.Retriever, error)
}

type buildTopicIndexUsecase struct {
	encoder               domain.VectorEncoder
	params                domain.SearchParams
	credentialFingerprint string
	cache                 *expirable.LRU[string, domain.Retriever]
	logger                *slog.Logger
}

// NewBuildTopicIndexUsecase creates the index builder. credential is the raw
// provider API key; only its hash participates in cache keys.
func NewBuildTopicIndexUsecase(
	encoder domain.VectorEncoder,
	params domain.SearchParams,
	credential string,
	cacheSize int,
	cacheTTL time.Duration,
	logger *slog.Logger,
) BuildTopicIndexUsecase {
	if cacheSize <= 0 {
		cacheSize = 8
	}
	sum := sha256.Sum256([]byte(credential))
	return &buildTopicIndexUsecase{
		encoder:               encoder,
		params:                params,
		credentialFingerprint: hex.EncodeToString(sum[:8]),
		cache:                 expirable.NewLRU[string, domain.Retriever](cacheSize, nil, cacheTTL),
		logger:                logger,
	}
}

func (u *buildTopicIndexUsecase) Execute(ctx context.Context, corpus *domain.Corpus, topic string) (domain.Retriever, error) {
	if corpus == nil || corpus.IsEmpty() {
		return nil, domain.ErrNoCorpusData
	}

	key := corpus.Version() + "|" + strings.ToLower(strings.TrimSpace(topic)) + "|" + u.credentialFingerprint
	if index, ok := u.cache.Get(key); ok {
		u.logger.Debug("topic_index_cache_hit", slog.String("topic", topic))
		return index, nil
	}

	records := corpus.FilterByProduct(topic)
	if len(records) == 0 {
		return nil, fmt.Errorf("topic %q: %w", topic, domain.ErrNoTopicData)
	}

	start := time.Now()
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}

	vectors, err := u.encoder.Encode(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed topic records: %w", err)
	}

	index, err := domain.NewTopicIndex(topic, records, vectors, u.encoder, u.params)
	if err != nil {
		return nil, err
	}

	u.cache.Add(key, index)
	u.logger.Info("topic_index_built",
		slog.String("topic", topic),
		slog.Int("record_count", len(records)),
		slog.String("embedder", u.encoder.Version()),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return index, nil
}
