package contract

import (
	"context"
	"time"

	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/repository/specification"

	"github.com/google/uuid"
)

// TierCount is one row of the tier distribution aggregate.
type TierCount struct {
	RiskTier string
	Count    int64
}

// CategoryCount is one row of the violation category aggregate.
type CategoryCount struct {
	Category string
	Count    int64
}

type AuditRepository interface {
	CreateRecord(ctx context.Context, record *entity.AuditRecord) error
	CreateTraces(ctx context.Context, traces []*entity.StageTraceRecord) error
	FindRecords(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditRecord, error)
	FindRecordByMessageId(ctx context.Context, messageId uuid.UUID) (*entity.AuditRecord, error)
	FindTracesByMessageId(ctx context.Context, messageId uuid.UUID) ([]*entity.StageTraceRecord, error)
	CountRecords(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountByTier(ctx context.Context) ([]TierCount, error)
	CountViolationsByCategory(ctx context.Context) ([]CategoryCount, error)
	AverageProcessingTime(ctx context.Context) (float64, error)
	// DeleteOlderThan hard-deletes records and traces past the retention
	// window. Returns how many audit records were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
