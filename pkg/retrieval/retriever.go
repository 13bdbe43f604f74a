package retrieval

import (
	"context"
	"fmt"
	"log"
	"sort"
)

// SearchIndex is the opaque nearest-neighbor collaborator. The pgvector
// implementation lives in PolicyIndex; tests plug in an in-memory fake.
type SearchIndex interface {
	Search(ctx context.Context, query string, k int) ([]Evidence, error)
}

// Retriever wraps the search index with the ranking policy: results come
// back ordered by descending similarity, anything under the minimum score
// is dropped before truncation, and an empty index is an empty result,
// never an error.
type Retriever struct {
	index    SearchIndex
	topK     int
	minScore float64
	logger   *log.Logger
}

func NewRetriever(index SearchIndex, topK int, minScore float64, logger *log.Logger) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		index:    index,
		topK:     topK,
		minScore: minScore,
		logger:   logger,
	}
}

// Retrieve returns at most topK evidence items above the minimum similarity
// score, best first. An error means the collaborator itself failed; the
// caller substitutes empty evidence and records the stage as failed.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Evidence, error) {
	// Over-fetch so threshold filtering does not starve the result set.
	raw, err := r.index.Search(ctx, query, r.topK*2)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	filtered := make([]Evidence, 0, len(raw))
	for _, ev := range raw {
		if ev.SimilarityScore >= r.minScore {
			filtered = append(filtered, ev)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].SimilarityScore > filtered[j].SimilarityScore
	})

	if len(filtered) > r.topK {
		filtered = filtered[:r.topK]
	}

	r.logger.Printf("[RETRIEVE] %d/%d passages above threshold %.2f for query: %s",
		len(filtered), len(raw), r.minScore, truncate(query, 50))

	return filtered, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
