package retrieval

import (
	"context"
	"fmt"

	"risk-copilot-be/pkg/embedding"
)

// ChunkStore is the persistence-side collaborator: nearest-neighbor search
// over stored policy chunk embeddings. Implemented by the policy chunk
// repository on top of pgvector.
type ChunkStore interface {
	SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]Evidence, error)
}

// PolicyIndex implements SearchIndex by embedding the query text and
// delegating the vector search to the chunk store.
type PolicyIndex struct {
	embedder embedding.Provider
	store    ChunkStore
}

func NewPolicyIndex(embedder embedding.Provider, store ChunkStore) *PolicyIndex {
	return &PolicyIndex{embedder: embedder, store: store}
}

func (p *PolicyIndex) Search(ctx context.Context, query string, k int) ([]Evidence, error) {
	vec, err := p.embedder.Generate(ctx, query, embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := p.store.SearchSimilar(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}
