package implementation

import (
	"context"

	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/mapper"
	"risk-copilot-be/internal/model"
	"risk-copilot-be/internal/repository/contract"
	"risk-copilot-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PolicyChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PolicyMapper
}

func NewPolicyChunkRepository(db *gorm.DB) contract.PolicyChunkRepository {
	return &PolicyChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewPolicyMapper(),
	}
}

func (r *PolicyChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PolicyChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.PolicyChunk) error {
	m := r.mapper.ChunkToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ChunkToEntity(m)
	return nil
}

func (r *PolicyChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.PolicyChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.PolicyChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ChunkToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ChunkToEntity(m)
	}
	return nil
}

func (r *PolicyChunkRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("policy_document_id = ?", documentId).Delete(&model.PolicyChunk{}).Error
}

func (r *PolicyChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyChunk, error) {
	var models []*model.PolicyChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PolicyChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ChunkToEntity(m)
	}
	return entities, nil
}

func (r *PolicyChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.PolicyChunk{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore runs the nearest-neighbor query with the score in
// SQL. pgvector's <=> is cosine distance, so similarity = 1 - distance;
// filtering on the threshold in the query keeps irrelevant chunks from ever
// crossing the wire.
func (r *PolicyChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredPolicyChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.PolicyChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("policy_chunks").
		Select("policy_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN policy_documents ON policy_documents.id = policy_chunks.policy_document_id").
		Where("policy_chunks.deleted_at IS NULL").
		Where("policy_documents.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPolicyChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredPolicyChunk{
			Chunk:      r.mapper.ChunkToEntity(&res.PolicyChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
