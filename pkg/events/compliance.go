package events

import "time"

// Event type codes carried on the alert bus. Subjects are derived from
// these, so changing one breaks existing durable consumers.
const (
	TypeGuardrailBlock   = "GUARDRAIL_BLOCK"
	TypeHighRiskDecision = "HIGH_RISK_DECISION"
	TypePolicyIngested   = "POLICY_INGESTED"
)

// NewGuardrailBlockEvent is emitted whenever the pipeline aborts a request
// at a guardrail checkpoint.
func NewGuardrailBlockEvent(sessionID, messageID, abortedAt, maxSeverity string, violationCount int) Event {
	return BaseEvent{
		Type: TypeGuardrailBlock,
		Data: map[string]interface{}{
			"session_id":      sessionID,
			"message_id":      messageID,
			"aborted_at":      abortedAt,
			"max_severity":    maxSeverity,
			"violation_count": violationCount,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// NewHighRiskDecisionEvent is emitted when a completed answer carries a
// high or critical risk tier, so compliance can review it out of band.
func NewHighRiskDecisionEvent(sessionID, messageID, riskTier string, confidence float64) Event {
	return BaseEvent{
		Type: TypeHighRiskDecision,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"message_id": messageID,
			"risk_tier":  riskTier,
			"confidence": confidence,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// NewPolicyIngestedEvent is emitted after a policy document is chunked,
// embedded and stored.
func NewPolicyIngestedEvent(documentID, documentName string, chunkCount int) Event {
	return BaseEvent{
		Type: TypePolicyIngested,
		Data: map[string]interface{}{
			"document_id":   documentID,
			"document_name": documentName,
			"chunk_count":   chunkCount,
		},
		OccurredAt: time.Now().UTC(),
	}
}
