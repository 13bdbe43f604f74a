package entity

import (
	"time"

	"github.com/google/uuid"
)

type PolicyDocument struct {
	Id        uuid.UUID
	Name      string
	Category  string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type PolicyChunk struct {
	Id               uuid.UUID
	PolicyDocumentId uuid.UUID
	Content          string
	Section          string
	ChunkIndex       int
	EmbeddingValue   []float32
	CreatedAt        time.Time
}
