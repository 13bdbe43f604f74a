package contract

import (
	"context"

	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredPolicyChunk wraps a PolicyChunk with its similarity score.
type ScoredPolicyChunk struct {
	Chunk      *entity.PolicyChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type PolicyChunkRepository interface {
	Create(ctx context.Context, chunk *entity.PolicyChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.PolicyChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns chunks with their cosine similarity,
	// filtered by threshold, best first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredPolicyChunk, error)
}
