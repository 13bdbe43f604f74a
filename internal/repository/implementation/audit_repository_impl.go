package implementation

import (
	"context"
	"errors"
	"time"

	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/mapper"
	"risk-copilot-be/internal/model"
	"risk-copilot-be/internal/repository/contract"
	"risk-copilot-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AuditMapper
}

func NewAuditRepository(db *gorm.DB) contract.AuditRepository {
	return &AuditRepositoryImpl{
		db:     db,
		mapper: mapper.NewAuditMapper(),
	}
}

func (r *AuditRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AuditRepositoryImpl) CreateRecord(ctx context.Context, record *entity.AuditRecord) error {
	m := r.mapper.RecordToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.RecordToEntity(m)
	return nil
}

func (r *AuditRepositoryImpl) CreateTraces(ctx context.Context, traces []*entity.StageTraceRecord) error {
	if len(traces) == 0 {
		return nil
	}
	models := make([]*model.StageTraceRecord, len(traces))
	for i, t := range traces {
		models[i] = r.mapper.TraceToModel(t)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*traces[i] = *r.mapper.TraceToEntity(m)
	}
	return nil
}

func (r *AuditRepositoryImpl) FindRecords(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditRecord, error) {
	var models []*model.AuditRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AuditRecord, len(models))
	for i, m := range models {
		entities[i] = r.mapper.RecordToEntity(m)
	}
	return entities, nil
}

func (r *AuditRepositoryImpl) FindRecordByMessageId(ctx context.Context, messageId uuid.UUID) (*entity.AuditRecord, error) {
	var m model.AuditRecord
	err := r.db.WithContext(ctx).Where("message_id = ?", messageId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RecordToEntity(&m), nil
}

func (r *AuditRepositoryImpl) FindTracesByMessageId(ctx context.Context, messageId uuid.UUID) ([]*entity.StageTraceRecord, error) {
	var models []*model.StageTraceRecord
	err := r.db.WithContext(ctx).
		Where("message_id = ?", messageId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.StageTraceRecord, len(models))
	for i, m := range models {
		entities[i] = r.mapper.TraceToEntity(m)
	}
	return entities, nil
}

func (r *AuditRepositoryImpl) CountRecords(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.AuditRecord{}).Count(&count).Error
	return count, err
}

func (r *AuditRepositoryImpl) CountByTier(ctx context.Context) ([]contract.TierCount, error) {
	var rows []contract.TierCount
	err := r.db.WithContext(ctx).
		Model(&model.AuditRecord{}).
		Select("risk_tier, count(*) as count").
		Group("risk_tier").
		Scan(&rows).Error
	return rows, err
}

func (r *AuditRepositoryImpl) CountViolationsByCategory(ctx context.Context) ([]contract.CategoryCount, error) {
	var rows []contract.CategoryCount
	// Violations are stored as a jsonb array; unnest and group by the
	// category key.
	err := r.db.WithContext(ctx).
		Raw(`SELECT v->>'category' AS category, count(*) AS count
		     FROM audit_records, jsonb_array_elements(violations) AS v
		     GROUP BY v->>'category'`).
		Scan(&rows).Error
	return rows, err
}

func (r *AuditRepositoryImpl) AverageProcessingTime(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&model.AuditRecord{}).
		Select("COALESCE(AVG(processing_time_ms), 0)").
		Scan(&avg).Error
	return avg, err
}

func (r *AuditRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	// Traces first so no trace outlives its audit record.
	subQuery := r.db.Table("audit_records").Select("message_id").Where("created_at < ?", cutoff)
	if err := r.db.WithContext(ctx).
		Where("message_id IN (?)", subQuery).
		Delete(&model.StageTraceRecord{}).Error; err != nil {
		return 0, err
	}

	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.AuditRecord{})
	return res.RowsAffected, res.Error
}
