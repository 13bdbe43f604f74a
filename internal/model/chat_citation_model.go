package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatCitation struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatMessageId    uuid.UUID `gorm:"type:uuid;not null;index"`
	PolicyDocumentId uuid.UUID `gorm:"type:uuid;not null;index"`
	Section          string    `gorm:"type:text"`
	Excerpt          string    `gorm:"type:text"`
	RelevanceScore   float64   `gorm:"default:0"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`

	// Relationships
	ChatMessage    *ChatMessage    `gorm:"foreignKey:ChatMessageId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PolicyDocument *PolicyDocument `gorm:"foreignKey:PolicyDocumentId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (ChatCitation) TableName() string {
	return "chat_citations"
}
