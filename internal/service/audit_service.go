package service

import (
	"context"
	"encoding/json"
	"time"

	"risk-copilot-be/internal/constant"
	"risk-copilot-be/internal/dto"
	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/repository/memory"
	"risk-copilot-be/internal/repository/specification"
	"risk-copilot-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAuditService interface {
	GetTraces(ctx context.Context, messageId uuid.UUID) ([]dto.StageTraceDTO, error)
	ListRecords(ctx context.Context, req *dto.ListAuditRecordsRequest) ([]*dto.AuditRecordDTO, error)
	GetRecord(ctx context.Context, messageId uuid.UUID) (*dto.AuditRecordDTO, error)
	Stats(ctx context.Context) (*dto.AuditStatsResponse, error)
	Cleanup(ctx context.Context) (*dto.CleanupResponse, error)
}

type auditService struct {
	uowFactory    unitofwork.RepositoryFactory
	traceRepo     *memory.TraceRepository
	retentionDays int
}

func NewAuditService(uowFactory unitofwork.RepositoryFactory, traceRepo *memory.TraceRepository, retentionDays int) IAuditService {
	if retentionDays <= 0 {
		retentionDays = constant.AuditRetentionDays
	}
	return &auditService{
		uowFactory:    uowFactory,
		traceRepo:     traceRepo,
		retentionDays: retentionDays,
	}
}

// GetTraces reads from the in-memory store first. Fresh requests live there
// until the consumer has persisted them; older ones come from the database.
func (s *auditService) GetTraces(ctx context.Context, messageId uuid.UUID) ([]dto.StageTraceDTO, error) {
	if traces, found := s.traceRepo.Get(messageId.String()); found {
		return tracesToDTO(traces), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.AuditRepository().FindTracesByMessageId(ctx, messageId)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &dto.NotFoundError{Resource: "stage traces"}
	}

	result := make([]dto.StageTraceDTO, 0, len(records))
	for _, r := range records {
		var summary map[string]interface{}
		if r.SummaryJSON != "" {
			if err := json.Unmarshal([]byte(r.SummaryJSON), &summary); err != nil {
				summary = map[string]interface{}{}
			}
		}
		result = append(result, dto.StageTraceDTO{
			StageName:  r.StageName,
			Status:     r.Status,
			DurationMs: r.DurationMs,
			Summary:    summary,
			Timestamp:  r.CreatedAt,
		})
	}
	return result, nil
}

func (s *auditService) ListRecords(ctx context.Context, req *dto.ListAuditRecordsRequest) ([]*dto.AuditRecordDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{}
	if req.RiskTier != "" {
		specs = append(specs, specification.ByRiskTier{RiskTier: req.RiskTier})
	}
	if req.Outcome != "" {
		specs = append(specs, specification.ByOutcome{Outcome: req.Outcome})
	}
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})

	limit := req.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	specs = append(specs, specification.Pagination{Limit: limit, Offset: req.Offset})

	records, err := uow.AuditRepository().FindRecords(ctx, specs...)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.AuditRecordDTO, 0, len(records))
	for _, r := range records {
		result = append(result, recordToDTO(r))
	}
	return result, nil
}

func (s *auditService) GetRecord(ctx context.Context, messageId uuid.UUID) (*dto.AuditRecordDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.AuditRepository().FindRecordByMessageId(ctx, messageId)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &dto.NotFoundError{Resource: "audit record"}
	}
	return recordToDTO(record), nil
}

func (s *auditService) Stats(ctx context.Context) (*dto.AuditStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.AuditRepository()

	total, err := repo.CountRecords(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := repo.CountRecords(ctx, specification.ByOutcome{Outcome: constant.OutcomeCompleted})
	if err != nil {
		return nil, err
	}
	aborted, err := repo.CountRecords(ctx, specification.ByOutcome{Outcome: constant.OutcomeAborted})
	if err != nil {
		return nil, err
	}
	tiers, err := repo.CountByTier(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := repo.CountViolationsByCategory(ctx)
	if err != nil {
		return nil, err
	}
	avgMs, err := repo.AverageProcessingTime(ctx)
	if err != nil {
		return nil, err
	}

	distribution := make(map[string]int64, len(tiers))
	for _, tc := range tiers {
		distribution[tc.RiskTier] = tc.Count
	}
	violations := make(map[string]int64, len(categories))
	for _, cc := range categories {
		violations[cc.Category] = cc.Count
	}

	return &dto.AuditStatsResponse{
		TotalRecords:        total,
		CompletedCount:      completed,
		AbortedCount:        aborted,
		TierDistribution:    distribution,
		GuardrailViolations: violations,
		AvgProcessingTimeMs: avgMs,
	}, nil
}

func (s *auditService) Cleanup(ctx context.Context) (*dto.CleanupResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := uow.AuditRepository().DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	return &dto.CleanupResponse{
		DeletedRecords: deleted,
		Cutoff:         cutoff,
	}, nil
}

func recordToDTO(r *entity.AuditRecord) *dto.AuditRecordDTO {
	var violations []dto.ViolationDTO
	if r.ViolationsJSON != "" {
		_ = json.Unmarshal([]byte(r.ViolationsJSON), &violations)
	}
	return &dto.AuditRecordDTO{
		Id:               r.Id,
		SessionId:        r.SessionId,
		MessageId:        r.MessageId,
		Outcome:          r.Outcome,
		RiskTier:         r.RiskTier,
		Confidence:       r.Confidence,
		Violations:       violations,
		InputLength:      r.InputLength,
		OutputLength:     r.OutputLength,
		CitationCount:    r.CitationCount,
		ProcessingTimeMs: r.ProcessingTimeMs,
		CreatedAt:        r.CreatedAt,
	}
}
