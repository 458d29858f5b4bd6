package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"persona-orchestrator/internal/domain"
)

// DocumentRetriever runs every search query against the topic index and
// merges the hits into one deduplicated collection (stage 2).
type DocumentRetriever interface {
	Retrieve(ctx context.Context, queries []string, index domain.Retriever) ([]domain.Record, error)
}

type retrieveDocumentsUsecase struct {
	logger *slog.Logger
}

// NewDocumentRetriever creates the retrieval stage.
func NewDocumentRetriever(logger *slog.Logger) DocumentRetriever {
	return &retrieveDocumentsUsecase{logger: logger}
}

func (u *retrieveDocumentsUsecase) Retrieve(ctx context.Context, queries []string, index domain.Retriever) ([]domain.Record, error) {
	if index == nil {
		return nil, fmt.Errorf("topic index is required")
	}

	// Dedup by exact content; first-seen relative order is preserved for
	// deterministic display.
	seen := make(map[string]struct{})
	var unique []domain.Record
	total := 0

	for _, query := range queries {
		hits, err := index.Search(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("search for query %q failed: %w", truncate(query, 80), err)
		}
		total += len(hits)
		for _, hit := range hits {
			if _, ok := seen[hit.Text]; ok {
				continue
			}
			seen[hit.Text] = struct{}{}
			unique = append(unique, hit)
		}
	}

	u.logger.Info("retrieval_completed",
		slog.Int("query_count", len(queries)),
		slog.Int("total_hits", total),
		slog.Int("unique_documents", len(unique)))

	// An empty collection is valid: it signals "no grounding found" and
	// still flows to synthesis.
	return unique, nil
}
