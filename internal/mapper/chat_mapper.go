package mapper

import (
	"time"

	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/model"

	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) SessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	deletedAt, isDeleted := deletedAtToPtr(s.DeletedAt)

	return &entity.ChatSession{
		Id:                s.Id,
		Title:             s.Title,
		GuardrailsEnabled: s.GuardrailsEnabled,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         timeToPtr(s.UpdatedAt),
		DeletedAt:         deletedAt,
		IsDeleted:         isDeleted,
	}
}

func (m *ChatMapper) SessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	return &model.ChatSession{
		Id:                s.Id,
		Title:             s.Title,
		GuardrailsEnabled: s.GuardrailsEnabled,
		CreatedAt:         s.CreatedAt,
		DeletedAt:         ptrToDeletedAt(s.DeletedAt),
	}
}

func (m *ChatMapper) MessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	deletedAt, isDeleted := deletedAtToPtr(msg.DeletedAt)

	return &entity.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Content:       msg.Content,
		RiskTier:      msg.RiskTier,
		Confidence:    msg.Confidence,
		Blocked:       msg.Blocked,
		CreatedAt:     msg.CreatedAt,
		UpdatedAt:     timeToPtr(msg.UpdatedAt),
		DeletedAt:     deletedAt,
		IsDeleted:     isDeleted,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	return &model.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Content:       msg.Content,
		RiskTier:      msg.RiskTier,
		Confidence:    msg.Confidence,
		Blocked:       msg.Blocked,
		CreatedAt:     msg.CreatedAt,
		DeletedAt:     ptrToDeletedAt(msg.DeletedAt),
	}
}

func (m *ChatMapper) CitationToEntity(c *model.ChatCitation) *entity.ChatCitation {
	if c == nil {
		return nil
	}

	return &entity.ChatCitation{
		Id:               c.Id,
		ChatMessageId:    c.ChatMessageId,
		PolicyDocumentId: c.PolicyDocumentId,
		Section:          c.Section,
		Excerpt:          c.Excerpt,
		RelevanceScore:   c.RelevanceScore,
		CreatedAt:        c.CreatedAt,
	}
}

func (m *ChatMapper) CitationToModel(c *entity.ChatCitation) *model.ChatCitation {
	if c == nil {
		return nil
	}

	return &model.ChatCitation{
		Id:               c.Id,
		ChatMessageId:    c.ChatMessageId,
		PolicyDocumentId: c.PolicyDocumentId,
		Section:          c.Section,
		Excerpt:          c.Excerpt,
		RelevanceScore:   c.RelevanceScore,
		CreatedAt:        c.CreatedAt,
	}
}

func timeToPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	out := t
	return &out
}

func deletedAtToPtr(d gorm.DeletedAt) (*time.Time, bool) {
	if !d.Valid {
		return nil, false
	}
	t := d.Time
	return &t, true
}

func ptrToDeletedAt(t *time.Time) gorm.DeletedAt {
	if t == nil {
		return gorm.DeletedAt{}
	}
	return gorm.DeletedAt{Time: *t, Valid: true}
}
