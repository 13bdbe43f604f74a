package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"risk-copilot-be/internal/config"
	"risk-copilot-be/internal/constant"
	"risk-copilot-be/internal/controller"
	"risk-copilot-be/internal/pkg/logger"
	"risk-copilot-be/internal/pkg/mailer"
	"risk-copilot-be/internal/pkg/serverutils"
	"risk-copilot-be/internal/repository/memory"
	"risk-copilot-be/internal/repository/unitofwork"
	"risk-copilot-be/internal/service"
	"risk-copilot-be/internal/websocket"
	"risk-copilot-be/pkg/answer"
	"risk-copilot-be/pkg/citation"
	"risk-copilot-be/pkg/embedding"
	"risk-copilot-be/pkg/events"
	"risk-copilot-be/pkg/guardrail"
	"risk-copilot-be/pkg/llm/factory"
	"risk-copilot-be/pkg/pipeline"
	"risk-copilot-be/pkg/policy"
	"risk-copilot-be/pkg/retrieval"
	"risk-copilot-be/pkg/risk"

	pktNats "risk-copilot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	AuditController  controller.IAuditController
	PolicyController controller.IPolicyController
	HealthController controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.SMTP.AlertRecipients,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmBaseURL := cfg.Ai.LLMBaseURL
	if llmBaseURL == "" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Keys.HuggingFace,
		time.Duration(cfg.Ai.LLMTimeoutSecs)*time.Second,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsLogger := logger.NewIsolatedLogger("logs/audit_stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	traceRepo := memory.NewTraceRepository()

	// 5. Pipeline Components
	pipelineLogger := newPipelineLogger(cfg.Pipeline.LogFilePath)

	guardrailEngine := guardrail.NewEngine(guardrail.Config{
		CheckPII:           cfg.Guardrail.CheckPII,
		CheckToxicity:      cfg.Guardrail.CheckToxicity,
		CheckBannedTopics:  cfg.Guardrail.CheckBannedTopics,
		CheckInjection:     cfg.Guardrail.CheckInjection,
		CheckHallucination: cfg.Guardrail.CheckHallucination,
		BannedTopics:       cfg.Guardrail.BannedTopics,
	})

	searchAdapter := service.NewChunkSearchAdapter(uowFactory, cfg.Pipeline.MinSimilarity)
	policyIndex := retrieval.NewPolicyIndex(embeddingProvider, searchAdapter)
	retriever := retrieval.NewRetriever(policyIndex, cfg.Pipeline.TopK, cfg.Pipeline.MinSimilarity, pipelineLogger)
	classifier := risk.NewClassifier(cfg.Pipeline.RelevanceThreshold)
	generator := answer.NewGenerator(llmProvider, cfg.Pipeline.MaxContextChars, pipelineLogger)
	linker := citation.NewLinker(cfg.Pipeline.RelevanceThreshold)

	orchestrator := pipeline.NewOrchestrator(
		guardrailEngine,
		retriever,
		classifier,
		generator,
		linker,
		pipeline.Config{
			BlockingSeverity: guardrail.ParseSeverity(cfg.Guardrail.BlockingSeverity),
			StageTimeout:     time.Duration(cfg.Pipeline.StageTimeoutSecs) * time.Second,
		},
		pipelineLogger,
	)

	// 6. Services
	publisherService := service.NewPublisherService(constant.PersistAuditTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.PersistAuditTopicName,
		uowFactory,
		wsHub,
		natsPub,
		emailService,
	)

	chatService := service.NewChatService(
		uowFactory,
		orchestrator,
		publisherService,
		traceRepo,
		cfg.Guardrail.Enabled,
	)
	auditService := service.NewAuditService(uowFactory, traceRepo, cfg.Audit.RetentionDays)
	policyService := service.NewPolicyService(
		uowFactory,
		policy.NewChunker(500, 50),
		embeddingProvider,
		natsPub,
	)

	rateLimiter := serverutils.NewRateLimiter(rdb, cfg.RateLimit.PerMinute, time.Minute, cfg.RateLimit.Enabled)

	// Durable alert tap: every compliance alert lands in the structured
	// log even if no reviewer was connected when it fired.
	if natsSub != nil {
		err := natsSub.Subscribe("alerts.>", "compliance-alert-log", func(ctx context.Context, evt events.Event) error {
			sysLogger.Warn("ComplianceAlert", "Alert received", map[string]interface{}{
				"subject": evt.EventType(),
				"payload": evt.Payload(),
			})
			return nil
		})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to alert stream: %v", err)
		}
	}

	// 7. Controllers
	return &Container{
		ChatController:   controller.NewChatController(chatService, rateLimiter),
		AuditController:  controller.NewAuditController(auditService, sysLogger, wsHub),
		PolicyController: controller.NewPolicyController(policyService),
		HealthController: controller.NewHealthController(db, rdb, llmBaseURL),
		ConsumerService:  consumerService,
		WebSocketHub:     wsHub,
	}
}

// newPipelineLogger writes pipeline stage logs to their own file so stage
// noise stays out of the structured application log.
func newPipelineLogger(path string) *log.Logger {
	if path == "" {
		return log.New(os.Stdout, "[PIPELINE] ", log.LstdFlags)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("[WARN] Failed to open pipeline log file %s: %v. Using stdout", path, err)
		return log.New(os.Stdout, "[PIPELINE] ", log.LstdFlags)
	}
	return log.New(f, "[PIPELINE] ", log.LstdFlags)
}
