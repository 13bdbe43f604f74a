package service

import (
	"context"
	"encoding/json"
	"log"

	"risk-copilot-be/internal/constant"
	"risk-copilot-be/internal/dto"
	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/pkg/mailer"
	"risk-copilot-be/internal/repository/unitofwork"
	"risk-copilot-be/internal/websocket"
	"risk-copilot-be/pkg/events"
	pktNats "risk-copilot-be/pkg/nats"
	"risk-copilot-be/pkg/risk"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the audit persistence topic. It writes the audit
// record and stage traces, streams the decision to connected reviewers and
// fires compliance alerts for blocked or high-risk outcomes.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	hub            *websocket.Hub
	eventPublisher *pktNats.Publisher
	emailService   mailer.IEmailService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	hub *websocket.Hub,
	eventPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		hub:            hub,
		eventPublisher: eventPublisher,
		emailService:   emailService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PersistAuditMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal audit message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Persisting audit trail for MessageId: %s", payload.MessageId)

	if err := cs.persist(ctx, &payload); err != nil {
		log.Printf("[ERROR] Failed to persist audit trail %s: %v", payload.MessageId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	cs.streamDecision(&payload)
	cs.alert(ctx, &payload)

	msg.Ack()
}

func (cs *consumerService) persist(ctx context.Context, payload *dto.PersistAuditMessage) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	record := &entity.AuditRecord{
		SessionId:        payload.SessionId,
		MessageId:        payload.MessageId,
		Outcome:          payload.Outcome,
		RiskTier:         payload.RiskTier,
		Confidence:       payload.Confidence,
		ViolationsJSON:   marshalViolations(payload.Violations),
		InputLength:      payload.InputLength,
		OutputLength:     payload.OutputLength,
		CitationCount:    payload.CitationCount,
		ProcessingTimeMs: payload.ProcessingTimeMs,
	}

	traces := make([]*entity.StageTraceRecord, 0, len(payload.Traces))
	for _, tr := range payload.Traces {
		summaryJSON := "{}"
		if data, err := json.Marshal(tr.Summary); err == nil {
			summaryJSON = string(data)
		}
		traces = append(traces, &entity.StageTraceRecord{
			Id:          uuid.New(),
			MessageId:   payload.MessageId,
			StageName:   tr.StageName,
			Status:      tr.Status,
			DurationMs:  tr.DurationMs,
			SummaryJSON: summaryJSON,
			CreatedAt:   tr.Timestamp,
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.AuditRepository().CreateRecord(ctx, record); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.AuditRepository().CreateTraces(ctx, traces); err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}

func (cs *consumerService) streamDecision(payload *dto.PersistAuditMessage) {
	if cs.hub == nil {
		return
	}
	cs.hub.Broadcast("audit_decision", map[string]interface{}{
		"session_id":         payload.SessionId,
		"message_id":         payload.MessageId,
		"outcome":            payload.Outcome,
		"risk_tier":          payload.RiskTier,
		"confidence":         payload.Confidence,
		"max_severity":       payload.MaxSeverity,
		"violation_count":    len(payload.Violations),
		"citation_count":     payload.CitationCount,
		"processing_time_ms": payload.ProcessingTimeMs,
	})
}

func (cs *consumerService) alert(ctx context.Context, payload *dto.PersistAuditMessage) {
	if payload.Outcome == constant.OutcomeAborted {
		if cs.eventPublisher != nil {
			evt := events.NewGuardrailBlockEvent(
				payload.SessionId.String(),
				payload.MessageId.String(),
				payload.AbortedAt,
				payload.MaxSeverity,
				len(payload.Violations),
			)
			if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
				log.Printf("[WARN] Failed to publish GUARDRAIL_BLOCK event: %v", err)
			}
		}
		if cs.emailService != nil {
			if err := cs.emailService.SendGuardrailAlert(
				payload.SessionId.String(),
				payload.AbortedAt,
				payload.MaxSeverity,
				len(payload.Violations),
			); err != nil {
				log.Printf("[WARN] Failed to send guardrail alert email: %v", err)
			}
		}
		return
	}

	if risk.ParseTier(payload.RiskTier) >= risk.TierHigh {
		if cs.eventPublisher != nil {
			evt := events.NewHighRiskDecisionEvent(
				payload.SessionId.String(),
				payload.MessageId.String(),
				payload.RiskTier,
				payload.Confidence,
			)
			if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
				log.Printf("[WARN] Failed to publish HIGH_RISK_DECISION event: %v", err)
			}
		}
		if cs.emailService != nil {
			if err := cs.emailService.SendHighRiskAlert(
				payload.SessionId.String(),
				payload.RiskTier,
				payload.Confidence,
			); err != nil {
				log.Printf("[WARN] Failed to send high risk alert email: %v", err)
			}
		}
	}
}
