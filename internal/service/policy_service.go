package service

import (
	"context"
	"fmt"

	"risk-copilot-be/internal/dto"
	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/repository/specification"
	"risk-copilot-be/internal/repository/unitofwork"
	"risk-copilot-be/pkg/embedding"
	"risk-copilot-be/pkg/events"
	pktNats "risk-copilot-be/pkg/nats"
	"risk-copilot-be/pkg/policy"

	"github.com/google/uuid"
)

type IPolicyService interface {
	Ingest(ctx context.Context, req *dto.IngestPolicyRequest) (*dto.IngestPolicyResponse, error)
	List(ctx context.Context) ([]*dto.PolicyDocumentDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type policyService struct {
	uowFactory        unitofwork.RepositoryFactory
	chunker           *policy.Chunker
	embeddingProvider embedding.Provider
	eventPublisher    *pktNats.Publisher
}

func NewPolicyService(
	uowFactory unitofwork.RepositoryFactory,
	chunker *policy.Chunker,
	embeddingProvider embedding.Provider,
	eventPublisher *pktNats.Publisher,
) IPolicyService {
	return &policyService{
		uowFactory:        uowFactory,
		chunker:           chunker,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

// Ingest stores a policy document, splits it into section-aware chunks and
// embeds every chunk synchronously. Ingestion is an operator action, not a
// chat-path one, so the embedding latency is acceptable here.
func (s *policyService) Ingest(ctx context.Context, req *dto.IngestPolicyRequest) (*dto.IngestPolicyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document := &entity.PolicyDocument{
		Name:     req.Name,
		Category: req.Category,
		Content:  req.Content,
	}
	if err := uow.PolicyDocumentRepository().Create(ctx, document); err != nil {
		return nil, err
	}

	chunks := s.chunker.Chunk(req.Content)
	if len(chunks) == 0 {
		return nil, &dto.ValidationError{Message: "policy content produced no chunks"}
	}

	chunkEntities := make([]*entity.PolicyChunk, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := s.embeddingProvider.Generate(ctx, chunk.Content, embedding.TaskDocument)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d of %q: %w", chunk.Index, document.Name, err)
		}
		chunkEntities = append(chunkEntities, &entity.PolicyChunk{
			PolicyDocumentId: document.Id,
			Content:          chunk.Content,
			Section:          chunk.Section,
			ChunkIndex:       chunk.Index,
			EmbeddingValue:   vector,
		})
	}

	if err := uow.PolicyChunkRepository().CreateBulk(ctx, chunkEntities); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewPolicyIngestedEvent(document.Id.String(), document.Name, len(chunkEntities))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish POLICY_INGESTED event: %v\n", err)
		}
	}

	return &dto.IngestPolicyResponse{
		Id:         document.Id,
		Name:       document.Name,
		ChunkCount: len(chunkEntities),
	}, nil
}

func (s *policyService) List(ctx context.Context) ([]*dto.PolicyDocumentDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.PolicyDocumentRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.PolicyDocumentDTO, 0, len(documents))
	for _, d := range documents {
		result = append(result, &dto.PolicyDocumentDTO{
			Id:        d.Id,
			Name:      d.Name,
			Category:  d.Category,
			CreatedAt: d.CreatedAt,
		})
	}
	return result, nil
}

func (s *policyService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.PolicyDocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if document == nil {
		return &dto.NotFoundError{Resource: "policy document"}
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.PolicyChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.PolicyDocumentRepository().Delete(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}
