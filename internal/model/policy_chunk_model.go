package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PolicyChunk struct {
	Id               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PolicyDocumentId uuid.UUID       `gorm:"type:uuid;not null;index"`
	Content          string          `gorm:"type:text;not null"`
	Section          string          `gorm:"type:text"`
	ChunkIndex       int             `gorm:"default:0"` // 0-based, reading order within the document
	EmbeddingValue   pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 and nomic-embed-text both emit 768 dims
	CreatedAt        time.Time       `gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt  `gorm:"index"`
}

func (PolicyChunk) TableName() string {
	return "policy_chunks"
}
