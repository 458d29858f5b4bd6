package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"persona-orchestrator/internal/domain"
)

// batchLimit is the maximum number of contents the batch embedding API
// accepts per request.
const batchLimit = 100

// Embedder generates embeddings through the Gemini embedding API. Requests
// are rate limited to stay under the free-tier quota.
type Embedder struct {
	client  *genai.Client
	model   *genai.EmbeddingModel
	name    string
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewEmbedder creates an embedder for the given model, e.g.
// "models/embedding-001". requestsPerSecond caps the batch request rate.
func NewEmbedder(ctx context.Context, apiKey, modelName string, requestsPerSecond float64, logger *slog.Logger) (*Embedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &Embedder{
		client:  client,
		model:   client.EmbeddingModel(modelName),
		name:    modelName,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:  logger,
	}, nil
}

// Encode embeds every text, preserving input order. Texts are split into
// batches and embedded concurrently.
func (e *Embedder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	start := time.Now()

	vectors := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for offset := 0; offset < len(texts); offset += batchLimit {
		end := offset + batchLimit
		if end > len(texts) {
			end = len(texts)
		}
		offset, batch := offset, texts[offset:end]
		g.Go(func() error {
			if err := e.limiter.Wait(gctx); err != nil {
				return err
			}
			embedded, err := e.embedBatch(gctx, batch)
			if err != nil {
				return err
			}
			copy(vectors[offset:], embedded)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.Error("gemini_embed_failed",
			slog.Int("text_count", len(texts)),
			slog.String("model", e.name),
			slog.String("error", err.Error()))
		return nil, &domain.ProviderError{Op: "embed", Err: err}
	}

	e.logger.Info("gemini_embed_completed",
		slog.Int("text_count", len(texts)),
		slog.String("model", e.name),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return vectors, nil
}

func (e *Embedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	batch := e.model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}
	res, err := e.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(res.Embeddings))
	}
	embeddings := make([][]float32, 0, len(res.Embeddings))
	for _, emb := range res.Embeddings {
		embeddings = append(embeddings, emb.Values)
	}
	return embeddings, nil
}

// Version returns the wrapped model name.
func (e *Embedder) Version() string {
	return e.name
}

// Close releases the underlying API client.
func (e *Embedder) Close() error {
	return e.client.Close()
}

var _ domain.VectorEncoder = (*Embedder)(nil)
