package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"risk-copilot-be/pkg/answer"
	"risk-copilot-be/pkg/audit"
	"risk-copilot-be/pkg/citation"
	"risk-copilot-be/pkg/guardrail"
	"risk-copilot-be/pkg/retrieval"
	"risk-copilot-be/pkg/risk"
)

// Config tunes orchestrator behavior. Zero values are replaced by the
// defaults below in NewOrchestrator.
type Config struct {
	// BlockingSeverity is the minimum violation severity that aborts the
	// pipeline when guardrails are enabled.
	BlockingSeverity guardrail.Severity

	// StageTimeout bounds the retrieve and generate stages individually.
	StageTimeout time.Duration
}

const (
	defaultBlockingSeverity = guardrail.SeverityCritical
	defaultStageTimeout     = 30 * time.Second
)

// Orchestrator drives one query through the full stage sequence. It owns
// all control flow decisions: stage ordering, guardrail checkpoints,
// abort handling, per-stage fallbacks and trace recording. The stages
// themselves only transform State.
type Orchestrator struct {
	guardrails *guardrail.Engine
	retriever  *retrieval.Retriever
	classifier *risk.Classifier
	generator  *answer.Generator
	linker     *citation.Linker
	cfg        Config
	logger     *log.Logger
}

func NewOrchestrator(
	guardrails *guardrail.Engine,
	retriever *retrieval.Retriever,
	classifier *risk.Classifier,
	generator *answer.Generator,
	linker *citation.Linker,
	cfg Config,
	logger *log.Logger,
) *Orchestrator {
	if cfg.BlockingSeverity == 0 {
		cfg.BlockingSeverity = defaultBlockingSeverity
	}
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = defaultStageTimeout
	}
	return &Orchestrator{
		guardrails: guardrails,
		retriever:  retriever,
		classifier: classifier,
		generator:  generator,
		linker:     linker,
		cfg:        cfg,
		logger:     logger,
	}
}

// stageFunc transforms the state and reports what happened. Stages never
// decide control flow; they return a status and the orchestrator decides.
type stageFunc func(ctx context.Context, st *State) (audit.Summary, audit.Status)

type stage struct {
	name Phase
	run  stageFunc

	// guarded marks stages followed by a blocking checkpoint.
	guarded bool
}

func (o *Orchestrator) stages() []stage {
	return []stage{
		{name: PhaseSanitizeCheck, run: o.runSanitizeCheck, guarded: true},
		{name: PhaseRetrieve, run: o.runRetrieve},
		{name: PhasePreClassify, run: o.runPreClassify},
		{name: PhaseGenerate, run: o.runGenerate},
		{name: PhaseOutboundCheck, run: o.runOutboundCheck, guarded: true},
		{name: PhaseCite, run: o.runCite},
		{name: PhaseFinalClassify, run: o.runFinalClassify},
	}
}

// Run executes the pipeline for one state. It always returns a complete
// trace list: every stage that was scheduled appears exactly once, either
// executed or marked skipped on cancellation. A non-nil error means the
// caller's context was cancelled and the state must be discarded.
func (o *Orchestrator) Run(ctx context.Context, st *State) (*State, []audit.StageTrace, error) {
	rec := audit.NewRecorder()

	rec.Record(string(PhaseReceived), audit.StatusSuccess, 0, audit.Summary{
		"session_id":   st.SessionID.String(),
		"message_id":   st.MessageID.String(),
		"query_length": len(st.Query),
	})

	for _, sg := range o.stages() {
		if err := ctx.Err(); err != nil {
			rec.Record(string(sg.name), audit.StatusSkipped, 0, audit.Summary{
				"reason": "request cancelled",
			})
			return st, rec.Traces(), fmt.Errorf("pipeline cancelled before %s: %w", sg.name, err)
		}

		st.Phase = sg.name
		start := time.Now()
		summary, status := sg.run(ctx, st)
		rec.Record(string(sg.name), status, time.Since(start), summary)

		if sg.guarded && o.shouldBlock(st) {
			o.abort(st, rec, sg.name)
			return st, rec.Traces(), nil
		}
	}

	st.Phase = PhaseComplete
	rec.Record(string(PhaseComplete), audit.StatusSuccess, time.Since(st.StartedAt), audit.Summary{
		"risk_tier":      st.RiskTier.String(),
		"confidence":     st.Confidence,
		"citation_count": len(st.Citations),
		"output_length":  len(st.FinalAnswer),
	})
	return st, rec.Traces(), nil
}

// shouldBlock is the guardrail checkpoint. Violations are always
// recorded; the abort only fires when guardrails are enabled and the
// worst severity reaches the blocking threshold.
func (o *Orchestrator) shouldBlock(st *State) bool {
	if !st.GuardrailsEnabled {
		return false
	}
	return guardrail.MaxSeverity(st.Violations) >= o.cfg.BlockingSeverity
}

// abort switches the state to the terminal refusal outcome. An aborted
// query never carries a tier below high regardless of topic.
func (o *Orchestrator) abort(st *State, rec *audit.Recorder, at Phase) {
	st.Phase = PhaseAborted
	st.FinalAnswer = answer.RefusalMessage
	st.DraftAnswer = ""
	st.Citations = nil

	tier, confidence := o.classifier.Classify(risk.Context{
		Query:      st.EffectiveQuery(),
		Violations: st.Violations,
		Evidence:   st.Evidence,
	})
	st.RiskTier = risk.MaxTier(tier, risk.TierHigh)
	st.Confidence = confidence

	o.logger.Printf("pipeline aborted at %s: %d violation(s), tier=%s", at, len(st.Violations), st.RiskTier)

	rec.Record(string(PhaseAborted), audit.StatusSuccess, time.Since(st.StartedAt), audit.Summary{
		"aborted_at":      string(at),
		"violation_count": len(st.Violations),
		"risk_tier":       st.RiskTier.String(),
	})
}

func (o *Orchestrator) runSanitizeCheck(_ context.Context, st *State) (audit.Summary, audit.Status) {
	violations := o.guardrails.Evaluate(st.Query, guardrail.Inbound)
	st.AddViolations(violations...)

	st.SanitizedQuery = st.Query
	redacted := false
	if guardrail.HasCategory(violations, guardrail.CategoryPII) {
		st.SanitizedQuery = guardrail.RedactPII(st.Query)
		redacted = st.SanitizedQuery != st.Query
	}

	return audit.Summary{
		"violation_count": len(violations),
		"redacted":        redacted,
		"max_severity":    guardrail.MaxSeverity(violations).String(),
	}, audit.StatusSuccess
}

func (o *Orchestrator) runRetrieve(ctx context.Context, st *State) (audit.Summary, audit.Status) {
	tctx, cancel := context.WithTimeout(ctx, o.cfg.StageTimeout)
	defer cancel()

	evidence, err := o.retriever.Retrieve(tctx, st.EffectiveQuery())
	if err != nil {
		// Retrieval failures degrade to the no-evidence path instead of
		// failing the request.
		o.logger.Printf("retrieve failed, continuing without evidence: %v", err)
		st.Evidence = nil
		return audit.Summary{"error": err.Error(), "evidence_count": 0}, audit.StatusFailure
	}

	st.Evidence = evidence
	summary := audit.Summary{"evidence_count": len(evidence)}
	if len(evidence) > 0 {
		summary["top_score"] = evidence[0].SimilarityScore
	}
	return summary, audit.StatusSuccess
}

func (o *Orchestrator) runPreClassify(_ context.Context, st *State) (audit.Summary, audit.Status) {
	tier, confidence := o.classifier.Classify(risk.Context{
		Query:      st.EffectiveQuery(),
		Violations: st.Violations,
		Evidence:   st.Evidence,
	})
	st.RiskTier = tier
	st.Confidence = confidence

	return audit.Summary{
		"risk_tier":  tier.String(),
		"confidence": confidence,
	}, audit.StatusSuccess
}

func (o *Orchestrator) runGenerate(ctx context.Context, st *State) (audit.Summary, audit.Status) {
	tctx, cancel := context.WithTimeout(ctx, o.cfg.StageTimeout)
	defer cancel()

	draft, failed := o.generator.Generate(tctx, st.EffectiveQuery(), st.Evidence)
	st.DraftAnswer = draft

	status := audit.StatusSuccess
	if failed {
		status = audit.StatusFailure
	}
	return audit.Summary{
		"draft_length": len(draft),
		"fallback":     failed,
	}, status
}

func (o *Orchestrator) runOutboundCheck(_ context.Context, st *State) (audit.Summary, audit.Status) {
	violations := o.guardrails.Evaluate(st.DraftAnswer, guardrail.Outbound)
	st.AddViolations(violations...)

	return audit.Summary{
		"violation_count": len(violations),
		"max_severity":    guardrail.MaxSeverity(violations).String(),
	}, audit.StatusSuccess
}

func (o *Orchestrator) runCite(_ context.Context, st *State) (audit.Summary, audit.Status) {
	final, citations := o.linker.Link(st.DraftAnswer, st.Evidence)
	st.FinalAnswer = final
	st.Citations = citations

	if len(citations) > distinctDocuments(st.Evidence) {
		// More citations than evidence documents means the linker is
		// fabricating sources. Not recoverable at runtime.
		panic(fmt.Sprintf("citation linker produced %d citations from %d evidence documents",
			len(citations), distinctDocuments(st.Evidence)))
	}

	return audit.Summary{
		"citation_count": len(citations),
	}, audit.StatusSuccess
}

func (o *Orchestrator) runFinalClassify(_ context.Context, st *State) (audit.Summary, audit.Status) {
	tier, confidence := o.classifier.Classify(risk.Context{
		Query:      st.EffectiveQuery(),
		Violations: st.Violations,
		Evidence:   st.Evidence,
	})

	// The final tier never drops below the pre-generation tier.
	st.RiskTier = risk.MaxTier(st.RiskTier, tier)
	st.Confidence = confidence

	return audit.Summary{
		"risk_tier":  st.RiskTier.String(),
		"confidence": confidence,
	}, audit.StatusSuccess
}

func distinctDocuments(evidence []retrieval.Evidence) int {
	seen := make(map[string]struct{}, len(evidence))
	for _, ev := range evidence {
		seen[ev.DocumentID] = struct{}{}
	}
	return len(seen)
}
