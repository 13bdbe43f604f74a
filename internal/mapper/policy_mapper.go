package mapper

import (
	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type PolicyMapper struct{}

func NewPolicyMapper() *PolicyMapper {
	return &PolicyMapper{}
}

func (m *PolicyMapper) DocumentToEntity(d *model.PolicyDocument) *entity.PolicyDocument {
	if d == nil {
		return nil
	}

	deletedAt, isDeleted := deletedAtToPtr(d.DeletedAt)

	return &entity.PolicyDocument{
		Id:        d.Id,
		Name:      d.Name,
		Category:  d.Category,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: timeToPtr(d.UpdatedAt),
		DeletedAt: deletedAt,
		IsDeleted: isDeleted,
	}
}

func (m *PolicyMapper) DocumentToModel(d *entity.PolicyDocument) *model.PolicyDocument {
	if d == nil {
		return nil
	}

	return &model.PolicyDocument{
		Id:        d.Id,
		Name:      d.Name,
		Category:  d.Category,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		DeletedAt: ptrToDeletedAt(d.DeletedAt),
	}
}

func (m *PolicyMapper) ChunkToEntity(c *model.PolicyChunk) *entity.PolicyChunk {
	if c == nil {
		return nil
	}

	return &entity.PolicyChunk{
		Id:               c.Id,
		PolicyDocumentId: c.PolicyDocumentId,
		Content:          c.Content,
		Section:          c.Section,
		ChunkIndex:       c.ChunkIndex,
		EmbeddingValue:   c.EmbeddingValue.Slice(),
		CreatedAt:        c.CreatedAt,
	}
}

func (m *PolicyMapper) ChunkToModel(c *entity.PolicyChunk) *model.PolicyChunk {
	if c == nil {
		return nil
	}

	return &model.PolicyChunk{
		Id:               c.Id,
		PolicyDocumentId: c.PolicyDocumentId,
		Content:          c.Content,
		Section:          c.Section,
		ChunkIndex:       c.ChunkIndex,
		EmbeddingValue:   pgvector.NewVector(c.EmbeddingValue),
		CreatedAt:        c.CreatedAt,
	}
}
