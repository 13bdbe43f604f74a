package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord is the persisted decision record for one processed query.
type AuditRecord struct {
	Id               uuid.UUID
	SessionId        uuid.UUID
	MessageId        uuid.UUID
	Outcome          string // "completed" or "aborted"
	RiskTier         string
	Confidence       float64
	ViolationsJSON   string
	InputLength      int
	OutputLength     int
	CitationCount    int
	ProcessingTimeMs int64
	CreatedAt        time.Time
}

// StageTraceRecord is one persisted pipeline stage trace.
type StageTraceRecord struct {
	Id          uuid.UUID
	MessageId   uuid.UUID
	StageName   string
	Status      string
	DurationMs  int64
	SummaryJSON string
	CreatedAt   time.Time
}
