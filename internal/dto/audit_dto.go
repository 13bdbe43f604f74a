package dto

import (
	"time"

	"github.com/google/uuid"
)

type StageTraceDTO struct {
	StageName  string                 `json:"stage_name"`
	Status     string                 `json:"status"`
	DurationMs int64                  `json:"duration_ms"`
	Summary    map[string]interface{} `json:"output_summary"`
	Timestamp  time.Time              `json:"timestamp"`
}

type AuditRecordDTO struct {
	Id               uuid.UUID      `json:"id"`
	SessionId        uuid.UUID      `json:"session_id"`
	MessageId        uuid.UUID      `json:"message_id"`
	Outcome          string         `json:"outcome"`
	RiskTier         string         `json:"risk_tier"`
	Confidence       float64        `json:"confidence"`
	Violations       []ViolationDTO `json:"violations,omitempty"`
	InputLength      int            `json:"input_length"`
	OutputLength     int            `json:"output_length"`
	CitationCount    int            `json:"citation_count"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
	CreatedAt        time.Time      `json:"created_at"`
}

type ListAuditRecordsRequest struct {
	RiskTier string `query:"risk_tier"`
	Outcome  string `query:"outcome"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

type AuditStatsResponse struct {
	TotalRecords        int64            `json:"total_records"`
	CompletedCount      int64            `json:"completed_count"`
	AbortedCount        int64            `json:"aborted_count"`
	TierDistribution    map[string]int64 `json:"tier_distribution"`
	GuardrailViolations map[string]int64 `json:"guardrail_violations"`
	AvgProcessingTimeMs float64          `json:"average_processing_time_ms"`
}

// PersistAuditMessage is the payload published on the in-process bus right
// after a pipeline run; the consumer persists it out of the request path.
type PersistAuditMessage struct {
	SessionId        uuid.UUID       `json:"session_id"`
	MessageId        uuid.UUID       `json:"message_id"`
	Outcome          string          `json:"outcome"`
	AbortedAt        string          `json:"aborted_at,omitempty"`
	RiskTier         string          `json:"risk_tier"`
	Confidence       float64         `json:"confidence"`
	MaxSeverity      string          `json:"max_severity"`
	Violations       []ViolationDTO  `json:"violations,omitempty"`
	InputLength      int             `json:"input_length"`
	OutputLength     int             `json:"output_length"`
	CitationCount    int             `json:"citation_count"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
	Traces           []StageTraceDTO `json:"traces"`
}

type CleanupResponse struct {
	DeletedRecords int64     `json:"deleted_records"`
	Cutoff         time.Time `json:"cutoff"`
}
