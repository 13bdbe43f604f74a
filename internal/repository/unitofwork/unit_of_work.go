package unitofwork

import (
	"context"

	"risk-copilot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ChatCitationRepository() contract.ChatCitationRepository
	PolicyDocumentRepository() contract.PolicyDocumentRepository
	PolicyChunkRepository() contract.PolicyChunkRepository
	AuditRepository() contract.AuditRepository
}
