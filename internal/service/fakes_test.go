package service

import (
	"context"
	"io"
	"log"
	"time"

	"risk-copilot-be/internal/dto"
	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/repository/contract"
	"risk-copilot-be/internal/repository/specification"
	"risk-copilot-be/internal/repository/unitofwork"
	"risk-copilot-be/pkg/answer"
	"risk-copilot-be/pkg/citation"
	"risk-copilot-be/pkg/guardrail"
	"risk-copilot-be/pkg/llm"
	"risk-copilot-be/pkg/pipeline"
	"risk-copilot-be/pkg/retrieval"
	"risk-copilot-be/pkg/risk"

	"github.com/google/uuid"
)

// In-memory repository doubles so the service layer can be exercised
// without a database.

type fakeSessionRepository struct {
	session *entity.ChatSession
	updated *entity.ChatSession
}

func (f *fakeSessionRepository) Create(_ context.Context, session *entity.ChatSession) error {
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	f.session = session
	return nil
}

func (f *fakeSessionRepository) Update(_ context.Context, session *entity.ChatSession) error {
	f.updated = session
	return nil
}

func (f *fakeSessionRepository) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeSessionRepository) FindOne(_ context.Context, _ ...specification.Specification) (*entity.ChatSession, error) {
	return f.session, nil
}

func (f *fakeSessionRepository) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ChatSession, error) {
	if f.session == nil {
		return nil, nil
	}
	return []*entity.ChatSession{f.session}, nil
}

func (f *fakeSessionRepository) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeMessageRepository struct {
	created []*entity.ChatMessage
}

func (f *fakeMessageRepository) Create(_ context.Context, message *entity.ChatMessage) error {
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	message.CreatedAt = time.Now()
	f.created = append(f.created, message)
	return nil
}

func (f *fakeMessageRepository) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeMessageRepository) DeleteBySessionId(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (f *fakeMessageRepository) FindOne(_ context.Context, _ ...specification.Specification) (*entity.ChatMessage, error) {
	return nil, nil
}

func (f *fakeMessageRepository) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ChatMessage, error) {
	return f.created, nil
}

func (f *fakeMessageRepository) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(f.created)), nil
}

type fakeCitationRepository struct {
	created []*entity.ChatCitation
}

func (f *fakeCitationRepository) Create(_ context.Context, c *entity.ChatCitation) error {
	f.created = append(f.created, c)
	return nil
}

func (f *fakeCitationRepository) CreateBulk(_ context.Context, cs []*entity.ChatCitation) error {
	f.created = append(f.created, cs...)
	return nil
}

func (f *fakeCitationRepository) DeleteByMessageId(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeCitationRepository) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ChatCitation, error) {
	return f.created, nil
}

type fakeDocumentRepository struct{}

func (f *fakeDocumentRepository) Create(_ context.Context, _ *entity.PolicyDocument) error {
	return nil
}

func (f *fakeDocumentRepository) Update(_ context.Context, _ *entity.PolicyDocument) error {
	return nil
}

func (f *fakeDocumentRepository) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeDocumentRepository) FindOne(_ context.Context, _ ...specification.Specification) (*entity.PolicyDocument, error) {
	return nil, nil
}

func (f *fakeDocumentRepository) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.PolicyDocument, error) {
	return nil, nil
}

func (f *fakeDocumentRepository) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeChunkRepository struct{}

func (f *fakeChunkRepository) Create(_ context.Context, _ *entity.PolicyChunk) error { return nil }

func (f *fakeChunkRepository) CreateBulk(_ context.Context, _ []*entity.PolicyChunk) error {
	return nil
}

func (f *fakeChunkRepository) DeleteByDocumentId(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeChunkRepository) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.PolicyChunk, error) {
	return nil, nil
}

func (f *fakeChunkRepository) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return 0, nil
}

func (f *fakeChunkRepository) SearchSimilarWithScore(_ context.Context, _ []float32, _ int, _ float64) ([]*contract.ScoredPolicyChunk, error) {
	return nil, nil
}

type fakeAuditRepository struct {
	total      int64
	completed  int64
	aborted    int64
	tiers      []contract.TierCount
	categories []contract.CategoryCount
	avgMs      float64
}

func (f *fakeAuditRepository) CreateRecord(_ context.Context, _ *entity.AuditRecord) error {
	return nil
}

func (f *fakeAuditRepository) CreateTraces(_ context.Context, _ []*entity.StageTraceRecord) error {
	return nil
}

func (f *fakeAuditRepository) FindRecords(_ context.Context, _ ...specification.Specification) ([]*entity.AuditRecord, error) {
	return nil, nil
}

func (f *fakeAuditRepository) FindRecordByMessageId(_ context.Context, _ uuid.UUID) (*entity.AuditRecord, error) {
	return nil, nil
}

func (f *fakeAuditRepository) FindTracesByMessageId(_ context.Context, _ uuid.UUID) ([]*entity.StageTraceRecord, error) {
	return nil, nil
}

func (f *fakeAuditRepository) CountRecords(_ context.Context, specs ...specification.Specification) (int64, error) {
	for _, spec := range specs {
		if outcome, ok := spec.(specification.ByOutcome); ok {
			if outcome.Outcome == "completed" {
				return f.completed, nil
			}
			return f.aborted, nil
		}
	}
	return f.total, nil
}

func (f *fakeAuditRepository) CountByTier(_ context.Context) ([]contract.TierCount, error) {
	return f.tiers, nil
}

func (f *fakeAuditRepository) CountViolationsByCategory(_ context.Context) ([]contract.CategoryCount, error) {
	return f.categories, nil
}

func (f *fakeAuditRepository) AverageProcessingTime(_ context.Context) (float64, error) {
	return f.avgMs, nil
}

func (f *fakeAuditRepository) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeUnitOfWork struct {
	sessions  *fakeSessionRepository
	messages  *fakeMessageRepository
	citations *fakeCitationRepository
	documents *fakeDocumentRepository
	chunks    *fakeChunkRepository
	audits    *fakeAuditRepository
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		sessions:  &fakeSessionRepository{},
		messages:  &fakeMessageRepository{},
		citations: &fakeCitationRepository{},
		documents: &fakeDocumentRepository{},
		chunks:    &fakeChunkRepository{},
		audits:    &fakeAuditRepository{},
	}
}

func (f *fakeUnitOfWork) Begin(_ context.Context) error { return nil }
func (f *fakeUnitOfWork) Commit() error                 { return nil }
func (f *fakeUnitOfWork) Rollback() error               { return nil }

func (f *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository   { return f.sessions }
func (f *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository   { return f.messages }
func (f *fakeUnitOfWork) ChatCitationRepository() contract.ChatCitationRepository { return f.citations }
func (f *fakeUnitOfWork) PolicyDocumentRepository() contract.PolicyDocumentRepository {
	return f.documents
}
func (f *fakeUnitOfWork) PolicyChunkRepository() contract.PolicyChunkRepository { return f.chunks }
func (f *fakeUnitOfWork) AuditRepository() contract.AuditRepository             { return f.audits }

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork { return f.uow }

type fakePublisher struct {
	published []*dto.PersistAuditMessage
}

func (f *fakePublisher) PublishAuditTrail(_ context.Context, payload *dto.PersistAuditMessage) error {
	f.published = append(f.published, payload)
	return nil
}

type fakeSearchIndex struct {
	results []retrieval.Evidence
	err     error
}

func (f *fakeSearchIndex) Search(_ context.Context, _ string, _ int) ([]retrieval.Evidence, error) {
	return f.results, f.err
}

type fakeLLMProvider struct {
	response string
	err      error
}

func (f *fakeLLMProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeLLMProvider) Generate(ctx context.Context, _ string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, nil, opts...)
}

func newServiceTestOrchestrator(index retrieval.SearchIndex, provider llm.Provider) *pipeline.Orchestrator {
	logger := log.New(io.Discard, "", 0)
	return pipeline.NewOrchestrator(
		guardrail.NewEngine(guardrail.DefaultConfig()),
		retrieval.NewRetriever(index, 5, 0.5, logger),
		risk.NewClassifier(0.6),
		answer.NewGenerator(provider, 3000, logger),
		citation.NewLinker(0.6),
		pipeline.Config{},
		logger,
	)
}
