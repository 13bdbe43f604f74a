package mapper

import (
	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/model"
)

type AuditMapper struct{}

func NewAuditMapper() *AuditMapper {
	return &AuditMapper{}
}

func (m *AuditMapper) RecordToEntity(r *model.AuditRecord) *entity.AuditRecord {
	if r == nil {
		return nil
	}

	return &entity.AuditRecord{
		Id:               r.Id,
		SessionId:        r.SessionId,
		MessageId:        r.MessageId,
		Outcome:          r.Outcome,
		RiskTier:         r.RiskTier,
		Confidence:       r.Confidence,
		ViolationsJSON:   r.Violations,
		InputLength:      r.InputLength,
		OutputLength:     r.OutputLength,
		CitationCount:    r.CitationCount,
		ProcessingTimeMs: r.ProcessingTimeMs,
		CreatedAt:        r.CreatedAt,
	}
}

func (m *AuditMapper) RecordToModel(r *entity.AuditRecord) *model.AuditRecord {
	if r == nil {
		return nil
	}

	return &model.AuditRecord{
		Id:               r.Id,
		SessionId:        r.SessionId,
		MessageId:        r.MessageId,
		Outcome:          r.Outcome,
		RiskTier:         r.RiskTier,
		Confidence:       r.Confidence,
		Violations:       r.ViolationsJSON,
		InputLength:      r.InputLength,
		OutputLength:     r.OutputLength,
		CitationCount:    r.CitationCount,
		ProcessingTimeMs: r.ProcessingTimeMs,
		CreatedAt:        r.CreatedAt,
	}
}

func (m *AuditMapper) TraceToEntity(t *model.StageTraceRecord) *entity.StageTraceRecord {
	if t == nil {
		return nil
	}

	return &entity.StageTraceRecord{
		Id:          t.Id,
		MessageId:   t.MessageId,
		StageName:   t.StageName,
		Status:      t.Status,
		DurationMs:  t.DurationMs,
		SummaryJSON: t.Summary,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *AuditMapper) TraceToModel(t *entity.StageTraceRecord) *model.StageTraceRecord {
	if t == nil {
		return nil
	}

	return &model.StageTraceRecord{
		Id:         t.Id,
		MessageId:  t.MessageId,
		StageName:  t.StageName,
		Status:     t.Status,
		DurationMs: t.DurationMs,
		Summary:    t.SummaryJSON,
		CreatedAt:  t.CreatedAt,
	}
}
