package service

import (
	"context"

	"risk-copilot-be/internal/repository/specification"
	"risk-copilot-be/internal/repository/unitofwork"
	"risk-copilot-be/pkg/retrieval"

	"github.com/google/uuid"
)

// ChunkSearchAdapter bridges the policy chunk repository to the retrieval
// index. Similarity filtering happens twice on purpose: once in SQL so
// irrelevant rows never leave the database, and again in the retriever
// which owns the threshold semantics.
type ChunkSearchAdapter struct {
	uowFactory    unitofwork.RepositoryFactory
	minSimilarity float64
}

func NewChunkSearchAdapter(uowFactory unitofwork.RepositoryFactory, minSimilarity float64) *ChunkSearchAdapter {
	return &ChunkSearchAdapter{
		uowFactory:    uowFactory,
		minSimilarity: minSimilarity,
	}
}

func (a *ChunkSearchAdapter) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]retrieval.Evidence, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)

	scored, err := uow.PolicyChunkRepository().SearchSimilarWithScore(ctx, queryEmbedding, limit, a.minSimilarity)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return nil, nil
	}

	docIds := make([]uuid.UUID, 0, len(scored))
	seen := make(map[uuid.UUID]bool, len(scored))
	for _, sc := range scored {
		if !seen[sc.Chunk.PolicyDocumentId] {
			seen[sc.Chunk.PolicyDocumentId] = true
			docIds = append(docIds, sc.Chunk.PolicyDocumentId)
		}
	}

	documents, err := uow.PolicyDocumentRepository().FindAll(ctx, specification.ByIDs{IDs: docIds})
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(documents))
	categories := make(map[uuid.UUID]string, len(documents))
	for _, d := range documents {
		names[d.Id] = d.Name
		categories[d.Id] = d.Category
	}

	evidence := make([]retrieval.Evidence, 0, len(scored))
	for _, sc := range scored {
		evidence = append(evidence, retrieval.Evidence{
			DocumentID:      sc.Chunk.PolicyDocumentId.String(),
			Excerpt:         sc.Chunk.Content,
			Section:         sc.Chunk.Section,
			SimilarityScore: sc.Similarity,
			Source: retrieval.SourceMetadata{
				DocumentName: names[sc.Chunk.PolicyDocumentId],
				Category:     categories[sc.Chunk.PolicyDocumentId],
				ChunkIndex:   sc.Chunk.ChunkIndex,
			},
		})
	}
	return evidence, nil
}
