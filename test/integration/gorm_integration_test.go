package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/repository/specification"
	"risk-copilot-be/internal/repository/unitofwork"
	"risk-copilot-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.PolicyChunkRepository())
	assert.NotNil(t, uow.AuditRepository())

	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Policy Repositories", func(t *testing.T) {
		count, err := uow.PolicyDocumentRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Policy document count: %d", count)

		count, err = uow.PolicyChunkRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Policy chunk count: %d", count)
	})

	t.Run("Check Audit Repository", func(t *testing.T) {
		count, err := uow.AuditRepository().CountRecords(context.Background())
		assert.NoError(t, err)
		t.Logf("Audit record count: %d", count)

		avg, err := uow.AuditRepository().AverageProcessingTime(context.Background())
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, avg, 0.0)

		categories, err := uow.AuditRepository().CountViolationsByCategory(context.Background())
		assert.NoError(t, err)
		t.Logf("Violation categories: %d", len(categories))
	})

	t.Run("Session Round Trip", func(t *testing.T) {
		ctx := context.Background()

		session := &entity.ChatSession{
			Title:             "Integration Test Session",
			GuardrailsEnabled: true,
		}
		require.NoError(t, uow.ChatSessionRepository().Create(ctx, session))
		require.NotEqual(t, "", session.Id.String())

		found, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: session.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Integration Test Session", found.Title)
		assert.True(t, found.GuardrailsEnabled)

		// Soft delete, then verify it is gone from normal reads.
		require.NoError(t, uow.ChatSessionRepository().Delete(ctx, session.Id))
		gone, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: session.Id})
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}
