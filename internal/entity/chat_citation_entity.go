package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatCitation struct {
	Id               uuid.UUID
	ChatMessageId    uuid.UUID
	PolicyDocumentId uuid.UUID
	Section          string
	Excerpt          string
	RelevanceScore   float64
	CreatedAt        time.Time
}
