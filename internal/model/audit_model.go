package model

import (
	"time"

	"github.com/google/uuid"
)

type AuditRecord struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId        uuid.UUID `gorm:"type:uuid;not null;index"`
	MessageId        uuid.UUID `gorm:"type:uuid;not null;index"`
	Outcome          string    `gorm:"type:varchar(20);not null;index"`
	RiskTier         string    `gorm:"type:varchar(20);not null;index"`
	Confidence       float64   `gorm:"default:0"`
	Violations       string    `gorm:"type:jsonb"`
	InputLength      int       `gorm:"default:0"`
	OutputLength     int       `gorm:"default:0"`
	CitationCount    int       `gorm:"default:0"`
	ProcessingTimeMs int64     `gorm:"default:0"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index"`
}

func (AuditRecord) TableName() string {
	return "audit_records"
}

type StageTraceRecord struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MessageId  uuid.UUID `gorm:"type:uuid;not null;index"`
	StageName  string    `gorm:"type:varchar(50);not null"`
	Status     string    `gorm:"type:varchar(20);not null"`
	DurationMs int64     `gorm:"default:0"`
	Summary    string    `gorm:"type:jsonb"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (StageTraceRecord) TableName() string {
	return "stage_traces"
}
