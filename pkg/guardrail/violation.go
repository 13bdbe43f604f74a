package guardrail

// Direction tells the engine which checkpoint the text is passing through.
// Some detection families only apply on one side (hallucination checks are
// outbound only).
type Direction string

const (
	Inbound  Direction = "inbound"
	Outbound Direction = "outbound"
)

// Category classifies what kind of policy violation was detected.
type Category string

const (
	CategoryPII               Category = "pii"
	CategoryToxicity          Category = "toxicity"
	CategoryBannedTopic       Category = "banned_topic"
	CategoryHallucinationRisk Category = "hallucination_risk"
	CategoryPromptInjection   Category = "prompt_injection"
)

// Severity is an ordered scale. The numeric values matter: the orchestrator
// compares severities against the configured blocking threshold.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "none"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// ParseSeverity maps a config string to a Severity. Unknown values default
// to critical so a typo in config fails closed rather than open.
func ParseSeverity(s string) Severity {
	switch s {
	case "low":
		return SeverityLow
	case "medium":
		return SeverityMedium
	case "high":
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// Violation is immutable once created. The pipeline appends violations to
// its state and never removes them, so nothing detected here can be lost
// between detection and audit.
type Violation struct {
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	MatchedSpan string   `json:"matched_span,omitempty"`
}

// HasCategory reports whether any violation carries the given category.
func HasCategory(violations []Violation, category Category) bool {
	for _, v := range violations {
		if v.Category == category {
			return true
		}
	}
	return false
}

// MaxSeverity returns the highest severity among violations, or zero when
// the slice is empty.
func MaxSeverity(violations []Violation) Severity {
	var max Severity
	for _, v := range violations {
		if v.Severity > max {
			max = v.Severity
		}
	}
	return max
}
