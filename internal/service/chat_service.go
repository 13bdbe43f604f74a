package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"risk-copilot-be/internal/constant"
	"risk-copilot-be/internal/dto"
	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/repository/memory"
	"risk-copilot-be/internal/repository/specification"
	"risk-copilot-be/internal/repository/unitofwork"
	"risk-copilot-be/pkg/audit"
	"risk-copilot-be/pkg/guardrail"
	"risk-copilot-be/pkg/pipeline"

	"github.com/google/uuid"
)

type IChatService interface {
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, sessionId uuid.UUID) error
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	orchestrator      *pipeline.Orchestrator
	publisherService  IPublisherService
	traceRepo         *memory.TraceRepository
	guardrailsEnabled bool
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	orchestrator *pipeline.Orchestrator,
	publisherService IPublisherService,
	traceRepo *memory.TraceRepository,
	guardrailsEnabled bool,
) IChatService {
	return &chatService{
		uowFactory:        uowFactory,
		orchestrator:      orchestrator,
		publisherService:  publisherService,
		traceRepo:         traceRepo,
		guardrailsEnabled: guardrailsEnabled,
	}
}

func (s *chatService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	title := req.Title
	if title == "" {
		title = constant.DefaultSessionTitle
	}
	guardrailsEnabled := true
	if req.GuardrailsEnabled != nil {
		guardrailsEnabled = *req.GuardrailsEnabled
	}

	session := &entity.ChatSession{
		Title:             title,
		GuardrailsEnabled: guardrailsEnabled,
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (s *chatService) GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, &dto.GetAllSessionsResponse{
			Id:                session.Id,
			Title:             session.Title,
			GuardrailsEnabled: session.GuardrailsEnabled,
			CreatedAt:         session.CreatedAt,
			UpdatedAt:         session.UpdatedAt,
		})
	}
	return result, nil
}

func (s *chatService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &dto.NotFoundError{Resource: "chat session"}
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	for _, msg := range messages {
		item := &dto.GetChatHistoryResponse{
			Id:         msg.Id,
			Role:       msg.Role,
			Content:    msg.Content,
			RiskTier:   msg.RiskTier,
			Confidence: msg.Confidence,
			Blocked:    msg.Blocked,
			CreatedAt:  msg.CreatedAt,
		}
		if msg.Role == constant.ChatMessageRoleAssistant {
			citations, err := s.loadCitations(ctx, uow, msg.Id)
			if err != nil {
				return nil, err
			}
			item.Citations = citations
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *chatService) loadCitations(ctx context.Context, uow unitofwork.UnitOfWork, messageId uuid.UUID) ([]dto.CitationDTO, error) {
	citations, err := uow.ChatCitationRepository().FindAll(ctx,
		specification.ByChatMessageID{ChatMessageID: messageId},
	)
	if err != nil {
		return nil, err
	}
	if len(citations) == 0 {
		return nil, nil
	}

	docIds := make([]uuid.UUID, 0, len(citations))
	for _, c := range citations {
		docIds = append(docIds, c.PolicyDocumentId)
	}
	docs, err := uow.PolicyDocumentRepository().FindAll(ctx, specification.ByIDs{IDs: docIds})
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(docs))
	for _, d := range docs {
		names[d.Id] = d.Name
	}

	result := make([]dto.CitationDTO, 0, len(citations))
	for _, c := range citations {
		result = append(result, dto.CitationDTO{
			PolicyDocumentId: c.PolicyDocumentId,
			DocumentName:     names[c.PolicyDocumentId],
			Section:          c.Section,
			Excerpt:          c.Excerpt,
			RelevanceScore:   c.RelevanceScore,
		})
	}
	return result, nil
}

func (s *chatService) DeleteSession(ctx context.Context, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return &dto.NotFoundError{Resource: "chat session"}
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}

// Ask runs one query through the full pipeline, persists the exchange and
// publishes the audit trail for asynchronous persistence.
func (s *chatService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: req.ChatSessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &dto.NotFoundError{Resource: "chat session"}
	}

	// The deployment switch, the session switch and the per-request
	// override must all agree before a violation can block.
	guardrailsOn := s.guardrailsEnabled && session.GuardrailsEnabled
	if req.EnableGuardrails != nil {
		guardrailsOn = s.guardrailsEnabled && *req.EnableGuardrails
	}

	state := pipeline.NewState(session.Id, req.Query, guardrailsOn)
	state, traces, err := s.orchestrator.Run(ctx, state)
	if err != nil {
		// Cancellation mid-pipeline; nothing to persist.
		return nil, err
	}

	processingTime := time.Since(state.StartedAt)
	blocked := state.Phase == pipeline.PhaseAborted

	// The sanitized query goes to storage so redacted identifiers never
	// land at rest.
	userMessage := &entity.ChatMessage{
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleUser,
		Content:       state.EffectiveQuery(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}

	assistantMessage := &entity.ChatMessage{
		Id:            state.MessageID,
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       state.FinalAnswer,
		RiskTier:      state.RiskTier.String(),
		Confidence:    state.Confidence,
		Blocked:       blocked,
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		return nil, err
	}

	citationDTOs, err := s.persistCitations(ctx, uow, state, assistantMessage.Id)
	if err != nil {
		return nil, err
	}

	if session.Title == constant.DefaultSessionTitle {
		// Titles come from the sanitized query for the same reason the
		// message row does: detected PII must not land at rest.
		session.Title = deriveTitle(state.EffectiveQuery())
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			return nil, err
		}
	}

	s.traceRepo.Save(assistantMessage.Id.String(), traces)
	s.publishAuditTrail(ctx, state, traces, blocked, processingTime)

	resp := &dto.AskResponse{
		ChatSessionId: session.Id,
		MessageId:     assistantMessage.Id,
		Answer:        state.FinalAnswer,
		Blocked:       blocked,
		RiskTier:      state.RiskTier.String(),
		Confidence:    state.Confidence,
		Citations:     citationDTOs,
		Violations:    violationsToDTO(state.Violations),
		CreatedAt:     assistantMessage.CreatedAt,
	}
	if req.ReturnTraces {
		resp.Traces = tracesToDTO(traces)
	}
	return resp, nil
}

func (s *chatService) persistCitations(ctx context.Context, uow unitofwork.UnitOfWork, state *pipeline.State, messageId uuid.UUID) ([]dto.CitationDTO, error) {
	if len(state.Citations) == 0 {
		return nil, nil
	}

	entities := make([]*entity.ChatCitation, 0, len(state.Citations))
	dtos := make([]dto.CitationDTO, 0, len(state.Citations))
	for _, c := range state.Citations {
		docId, err := uuid.Parse(c.DocumentID)
		if err != nil {
			// Seeded test evidence can carry non-UUID document ids; those
			// citations are returned but not persisted.
			dtos = append(dtos, dto.CitationDTO{
				DocumentName:   c.DocumentName,
				Section:        c.Section,
				Excerpt:        c.Excerpt,
				RelevanceScore: c.RelevanceScore,
			})
			continue
		}
		entities = append(entities, &entity.ChatCitation{
			ChatMessageId:    messageId,
			PolicyDocumentId: docId,
			Section:          c.Section,
			Excerpt:          c.Excerpt,
			RelevanceScore:   c.RelevanceScore,
		})
		dtos = append(dtos, dto.CitationDTO{
			PolicyDocumentId: docId,
			DocumentName:     c.DocumentName,
			Section:          c.Section,
			Excerpt:          c.Excerpt,
			RelevanceScore:   c.RelevanceScore,
		})
	}

	if err := uow.ChatCitationRepository().CreateBulk(ctx, entities); err != nil {
		return nil, err
	}
	return dtos, nil
}

func (s *chatService) publishAuditTrail(ctx context.Context, state *pipeline.State, traces []audit.StageTrace, blocked bool, processingTime time.Duration) {
	outcome := constant.OutcomeCompleted
	abortedAt := ""
	if blocked {
		outcome = constant.OutcomeAborted
		abortedAt = abortedAtFromTraces(traces)
	}

	payload := &dto.PersistAuditMessage{
		SessionId:        state.SessionID,
		MessageId:        state.MessageID,
		Outcome:          outcome,
		AbortedAt:        abortedAt,
		RiskTier:         state.RiskTier.String(),
		Confidence:       state.Confidence,
		MaxSeverity:      guardrail.MaxSeverity(state.Violations).String(),
		Violations:       violationsToDTO(state.Violations),
		InputLength:      len(state.Query),
		OutputLength:     len(state.FinalAnswer),
		CitationCount:    len(state.Citations),
		ProcessingTimeMs: processingTime.Milliseconds(),
		Traces:           tracesToDTO(traces),
	}

	// The in-memory trace store already holds the data, so a publish
	// failure degrades durability, not the response.
	if err := s.publisherService.PublishAuditTrail(ctx, payload); err != nil {
		fmt.Printf("[WARN] Failed to publish audit trail for message %s: %v\n", state.MessageID, err)
	}
}

func abortedAtFromTraces(traces []audit.StageTrace) string {
	// The stage preceding the terminal "aborted" entry is where the
	// blocking checkpoint fired.
	for i, tr := range traces {
		if tr.StageName == string(pipeline.PhaseAborted) && i > 0 {
			return traces[i-1].StageName
		}
	}
	return ""
}

func violationsToDTO(violations []guardrail.Violation) []dto.ViolationDTO {
	if len(violations) == 0 {
		return nil
	}
	result := make([]dto.ViolationDTO, 0, len(violations))
	for _, v := range violations {
		result = append(result, dto.ViolationDTO{
			Category:    string(v.Category),
			Severity:    v.Severity.String(),
			Description: v.Description,
		})
	}
	return result
}

func tracesToDTO(traces []audit.StageTrace) []dto.StageTraceDTO {
	result := make([]dto.StageTraceDTO, 0, len(traces))
	for _, tr := range traces {
		result = append(result, dto.StageTraceDTO{
			StageName:  tr.StageName,
			Status:     string(tr.Status),
			DurationMs: tr.Duration.Milliseconds(),
			Summary:    tr.Summary,
			Timestamp:  tr.Timestamp,
		})
	}
	return result
}

func deriveTitle(query string) string {
	const maxTitle = 60
	runes := []rune(query)
	if len(runes) > maxTitle {
		return string(runes[:maxTitle]) + "..."
	}
	return query
}

// marshalViolations is shared with the consumer for at-rest storage.
func marshalViolations(violations []dto.ViolationDTO) string {
	if len(violations) == 0 {
		return "[]"
	}
	data, err := json.Marshal(violations)
	if err != nil {
		return "[]"
	}
	return string(data)
}
