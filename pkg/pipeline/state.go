package pipeline

import (
	"time"

	"risk-copilot-be/pkg/citation"
	"risk-copilot-be/pkg/guardrail"
	"risk-copilot-be/pkg/retrieval"
	"risk-copilot-be/pkg/risk"

	"github.com/google/uuid"
)

// Phase names the pipeline states. Each phase that executes produces
// exactly one stage trace under the same name.
type Phase string

const (
	PhaseReceived      Phase = "received"
	PhaseSanitizeCheck Phase = "sanitize_check"
	PhaseRetrieve      Phase = "retrieve"
	PhasePreClassify   Phase = "pre_classify"
	PhaseGenerate      Phase = "generate"
	PhaseOutboundCheck Phase = "outbound_check"
	PhaseCite          Phase = "cite"
	PhaseFinalClassify Phase = "final_classify"
	PhaseComplete      Phase = "complete"
	PhaseAborted       Phase = "aborted"
)

// State is the shared mutable record passed through the stages. One State
// per request, owned exclusively by the orchestrator for the request's
// lifetime; concurrent requests never share a State, which is what makes
// parallel pipelines safe without locks.
type State struct {
	SessionID uuid.UUID
	MessageID uuid.UUID

	Query          string
	SanitizedQuery string

	Evidence    []retrieval.Evidence
	DraftAnswer string
	FinalAnswer string
	Citations   []citation.Citation

	// Violations is append-only. Entries are never mutated or removed
	// once detected, so the audit stage always sees everything.
	Violations []guardrail.Violation

	RiskTier   risk.Tier
	Confidence float64

	GuardrailsEnabled bool

	Phase     Phase
	StartedAt time.Time
}

func NewState(sessionID uuid.UUID, query string, guardrailsEnabled bool) *State {
	return &State{
		SessionID:         sessionID,
		MessageID:         uuid.New(),
		Query:             query,
		RiskTier:          risk.TierMinimal,
		GuardrailsEnabled: guardrailsEnabled,
		Phase:             PhaseReceived,
		StartedAt:         time.Now(),
	}
}

// AddViolations appends without ever dropping existing entries.
func (s *State) AddViolations(violations ...guardrail.Violation) {
	s.Violations = append(s.Violations, violations...)
}

// EffectiveQuery is the sanitized query once the sanitize stage ran, the
// raw query before that.
func (s *State) EffectiveQuery() string {
	if s.SanitizedQuery != "" {
		return s.SanitizedQuery
	}
	return s.Query
}

// Completed reports whether the pipeline reached the CitationLinker stage
// without a fatal abort.
func (s *State) Completed() bool {
	return s.Phase == PhaseComplete
}
