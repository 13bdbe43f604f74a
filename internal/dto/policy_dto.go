package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestPolicyRequest struct {
	Name     string `json:"name" validate:"required,max=300"`
	Category string `json:"category,omitempty" validate:"max=100"`
	Content  string `json:"content" validate:"required"`
}

type IngestPolicyResponse struct {
	Id         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ChunkCount int       `json:"chunk_count"`
}

type PolicyDocumentDTO struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
