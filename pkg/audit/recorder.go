package audit

import (
	"time"

	"risk-copilot-be/pkg/guardrail"

	"github.com/google/uuid"
)

// Status of one pipeline stage execution.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusSkipped Status = "skipped"
)

// Summary is a small key→scalar map describing a stage's outcome. It goes
// into logs and the audit store, so it must never contain raw query text
// or PII; counts, flags and durations only.
type Summary map[string]any

// StageTrace records one pipeline stage's execution. Append-only: every
// stage scheduled for a request produces exactly one trace, including
// skipped and failed stages.
type StageTrace struct {
	StageName string        `json:"stage_name"`
	Status    Status        `json:"status"`
	Duration  time.Duration `json:"duration"`
	Summary   Summary       `json:"output_summary"`
	Timestamp time.Time     `json:"timestamp"`
}

// Decision is the final audit record for one request, written after the
// pipeline terminates (COMPLETE or ABORTED).
type Decision struct {
	SessionID      uuid.UUID             `json:"session_id"`
	MessageID      uuid.UUID             `json:"message_id"`
	Outcome        string                `json:"outcome"`
	RiskTier       string                `json:"risk_tier"`
	Confidence     float64               `json:"confidence"`
	Violations     []guardrail.Violation `json:"violations"`
	InputLength    int                   `json:"input_length"`
	OutputLength   int                   `json:"output_length"`
	CitationCount  int                   `json:"citation_count"`
	ProcessingTime time.Duration         `json:"processing_time"`
	Timestamp      time.Time             `json:"timestamp"`
}

// Recorder accumulates stage traces for a single request. One recorder per
// pipeline invocation; it is not safe for concurrent use and does not need
// to be, stages run strictly sequentially.
type Recorder struct {
	traces []StageTrace
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends a trace. Called unconditionally once per stage, on the
// success, failure and abort paths alike.
func (r *Recorder) Record(stageName string, status Status, duration time.Duration, summary Summary) {
	if summary == nil {
		summary = Summary{}
	}
	r.traces = append(r.traces, StageTrace{
		StageName: stageName,
		Status:    status,
		Duration:  duration,
		Summary:   summary,
		Timestamp: time.Now().UTC(),
	})
}

// Traces returns a copy so callers cannot mutate the recorded history.
func (r *Recorder) Traces() []StageTrace {
	out := make([]StageTrace, len(r.traces))
	copy(out, r.traces)
	return out
}

func (r *Recorder) Len() int {
	return len(r.traces)
}
