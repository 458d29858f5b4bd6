package domain

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Retriever is the search capability a built topic index exposes: one query
// string in, the top matching records out.
type Retriever interface {
	Search(ctx context.Context, query string) ([]Record, error)
}

// SearchParams hold the fixed retrieval parameters for a topic index.
// FetchK candidates are over-fetched by similarity, then K results are
// selected by maximal marginal relevance.
type SearchParams struct {
	K      int
	FetchK int
	Lambda float64
}

// DefaultSearchParams mirrors the retrieval settings the persona pipeline
// was tuned with.
func DefaultSearchParams() SearchParams {
	return SearchParams{K: 8, FetchK: 25, Lambda: 0.5}
}

// TopicIndex is an in-memory vector index over the records of one topic.
// It is read-only after construction and safe for concurrent searches.
type TopicIndex struct {
	topic   string
	records []Record
	vectors [][]float32
	encoder VectorEncoder
	params  SearchParams
}

// NewTopicIndex builds an index from parallel record/vector slices. The
// encoder is retained to embed incoming queries.
func NewTopicIndex(topic string, records []Record, vectors [][]float32, encoder VectorEncoder, params SearchParams) (*TopicIndex, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("topic %q: %w", topic, ErrNoTopicData)
	}
	if len(records) != len(vectors) {
		return nil, fmt.Errorf("topic %q: %d records but %d vectors", topic, len(records), len(vectors))
	}
	if params.K <= 0 || params.FetchK < params.K {
		return nil, fmt.Errorf("topic %q: invalid search params k=%d fetch_k=%d", topic, params.K, params.FetchK)
	}
	return &TopicIndex{
		topic:   topic,
		records: records,
		vectors: vectors,
		encoder: encoder,
		params:  params,
	}, nil
}

// Topic returns the topic this index was built for.
func (ix *TopicIndex) Topic() string {
	return ix.topic
}

// Len reports how many records the index holds.
func (ix *TopicIndex) Len() int {
	return len(ix.records)
}

// Search embeds the query and returns the top-k records selected by maximal
// marginal relevance over the fetch_k most similar candidates.
func (ix *TopicIndex) Search(ctx context.Context, query string) ([]Record, error) {
	embeddings, err := ix.encoder.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}
	picked := ix.searchMMR(embeddings[0])

	results := make([]Record, 0, len(picked))
	for _, i := range picked {
		results = append(results, ix.records[i])
	}
	return results, nil
}

// searchMMR selects record indexes balancing query relevance against
// diversity among the already selected results.
func (ix *TopicIndex) searchMMR(queryVec []float32) []int {
	type scored struct {
		idx int
		sim float64
	}

	candidates := make([]scored, 0, len(ix.vectors))
	for i, v := range ix.vectors {
		candidates = append(candidates, scored{idx: i, sim: cosineSimilarity(queryVec, v)})
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].sim > candidates[b].sim
	})
	if len(candidates) > ix.params.FetchK {
		candidates = candidates[:ix.params.FetchK]
	}

	k := ix.params.K
	if k > len(candidates) {
		k = len(candidates)
	}

	selected := make([]int, 0, k)
	remaining := candidates

	for len(selected) < k && len(remaining) > 0 {
		bestPos := -1
		bestScore := math.Inf(-1)
		for pos, cand := range remaining {
			maxSelSim := 0.0
			for _, sel := range selected {
				if s := cosineSimilarity(ix.vectors[cand.idx], ix.vectors[sel]); s > maxSelSim {
					maxSelSim = s
				}
			}
			score := ix.params.Lambda*cand.sim - (1-ix.params.Lambda)*maxSelSim
			if score > bestScore {
				bestScore = score
				bestPos = pos
			}
		}
		selected = append(selected, remaining[bestPos].idx)
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	return selected
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ Retriever = (*TopicIndex)(nil)
