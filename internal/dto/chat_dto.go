package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title             string `json:"title,omitempty" validate:"max=200"`
	GuardrailsEnabled *bool  `json:"guardrails_enabled,omitempty"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	GuardrailsEnabled bool       `json:"guardrails_enabled"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

type AskRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Query         string    `json:"query" validate:"required,max=4000"`
	// EnableGuardrails overrides the session toggle for this request.
	// Unset means inherit; false means evaluate and record but never block.
	EnableGuardrails *bool `json:"enable_guardrails,omitempty"`
	// ReturnTraces includes the stage traces inline. They are persisted
	// through the audit trail either way.
	ReturnTraces bool `json:"return_traces,omitempty"`
}

type CitationDTO struct {
	PolicyDocumentId uuid.UUID `json:"policy_document_id"`
	DocumentName     string    `json:"document_name"`
	Section          string    `json:"section,omitempty"`
	Excerpt          string    `json:"excerpt"`
	RelevanceScore   float64   `json:"relevance_score"`
}

type ViolationDTO struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type AskResponse struct {
	ChatSessionId uuid.UUID       `json:"chat_session_id"`
	MessageId     uuid.UUID       `json:"message_id"`
	Answer        string          `json:"answer"`
	Blocked       bool            `json:"blocked"`
	RiskTier      string          `json:"risk_tier"`
	Confidence    float64         `json:"confidence"`
	Citations     []CitationDTO   `json:"citations,omitempty"`
	Violations    []ViolationDTO  `json:"violations,omitempty"`
	Traces        []StageTraceDTO `json:"traces,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

type GetChatHistoryResponse struct {
	Id         uuid.UUID     `json:"id"`
	Role       string        `json:"role"`
	Content    string        `json:"content"`
	RiskTier   string        `json:"risk_tier,omitempty"`
	Confidence float64       `json:"confidence,omitempty"`
	Blocked    bool          `json:"blocked"`
	Citations  []CitationDTO `json:"citations,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}
