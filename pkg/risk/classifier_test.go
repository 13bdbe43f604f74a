package risk

import (
	"math"
	"testing"

	"risk-copilot-be/pkg/guardrail"
	"risk-copilot-be/pkg/retrieval"
)

func evidenceWithScores(scores ...float64) []retrieval.Evidence {
	out := make([]retrieval.Evidence, 0, len(scores))
	for i, score := range scores {
		out = append(out, retrieval.Evidence{
			DocumentID:      "doc-001",
			Excerpt:         "passage",
			SimilarityScore: score,
			Source:          retrieval.SourceMetadata{DocumentName: "Policy", ChunkIndex: i},
		})
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClassifyTopicTier(t *testing.T) {
	c := NewClassifier(0.6)
	evidence := evidenceWithScores(0.9, 0.8)

	tests := []struct {
		name  string
		query string
		want  Tier
	}{
		{"neutral query", "summarize the vendor onboarding process", TierMinimal},
		{"limited keyword", "what does the validation schedule look like", TierLimited},
		{"high keyword", "did this trade breach the position limits", TierHigh},
		{"high beats limited", "compliance review of the audit findings", TierHigh},
		{"case insensitive", "REGULATORY CAPITAL requirements", TierHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, _ := c.Classify(Context{Query: tt.query, Evidence: evidence})
			if tier != tt.want {
				t.Errorf("Classify(%q) tier = %s, want %s", tt.query, tier, tt.want)
			}
		})
	}
}

func TestClassifyViolationsEscalateTier(t *testing.T) {
	c := NewClassifier(0.6)
	evidence := evidenceWithScores(0.9)

	tests := []struct {
		name     string
		severity guardrail.Severity
		want     Tier
	}{
		{"critical violation", guardrail.SeverityCritical, TierCritical},
		{"high violation", guardrail.SeverityHigh, TierHigh},
		{"medium violation", guardrail.SeverityMedium, TierLimited},
		{"low violation", guardrail.SeverityLow, TierMinimal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, _ := c.Classify(Context{
				Query:      "summarize the vendor onboarding process",
				Violations: []guardrail.Violation{{Severity: tt.severity}},
				Evidence:   evidence,
			})
			if tier != tt.want {
				t.Errorf("tier = %s, want %s", tier, tt.want)
			}
		})
	}
}

func TestClassifyNoCoverageImpliesAtLeastLimited(t *testing.T) {
	c := NewClassifier(0.6)

	tier, _ := c.Classify(Context{Query: "summarize the vendor onboarding process"})
	if tier < TierLimited {
		t.Errorf("tier without evidence = %s, want at least limited", tier)
	}

	// Evidence present but all below the relevance threshold counts as no
	// coverage too.
	tier, _ = c.Classify(Context{
		Query:    "summarize the vendor onboarding process",
		Evidence: evidenceWithScores(0.55, 0.51),
	})
	if tier < TierLimited {
		t.Errorf("tier with sub-threshold evidence = %s, want at least limited", tier)
	}
}

func TestClassifyConfidence(t *testing.T) {
	c := NewClassifier(0.6)

	// Full coverage, no violations: 0.3 + 0.6*1.0
	_, conf := c.Classify(Context{
		Query:    "summarize the vendor onboarding process",
		Evidence: evidenceWithScores(0.9, 0.8),
	})
	if !almostEqual(conf, 0.9) {
		t.Errorf("confidence = %v, want 0.9", conf)
	}

	// Half coverage: 0.3 + 0.6*0.5
	_, conf = c.Classify(Context{
		Query:    "summarize the vendor onboarding process",
		Evidence: evidenceWithScores(0.9, 0.4),
	})
	if !almostEqual(conf, 0.6) {
		t.Errorf("confidence = %v, want 0.6", conf)
	}

	// No evidence at all: 0.3 + 0.6*0
	_, conf = c.Classify(Context{Query: "summarize the vendor onboarding process"})
	if !almostEqual(conf, 0.3) {
		t.Errorf("confidence = %v, want 0.3", conf)
	}
}

func TestClassifyConfidencePenalties(t *testing.T) {
	c := NewClassifier(0.6)
	evidence := evidenceWithScores(0.9, 0.8)

	tests := []struct {
		name       string
		violations []guardrail.Violation
		want       float64
	}{
		{"critical", []guardrail.Violation{{Severity: guardrail.SeverityCritical}}, 0.5},
		{"high", []guardrail.Violation{{Severity: guardrail.SeverityHigh}}, 0.65},
		{"medium", []guardrail.Violation{{Severity: guardrail.SeverityMedium}}, 0.8},
		{"low", []guardrail.Violation{{Severity: guardrail.SeverityLow}}, 0.85},
		{
			"stacked penalties clamp at zero",
			[]guardrail.Violation{
				{Severity: guardrail.SeverityCritical},
				{Severity: guardrail.SeverityCritical},
				{Severity: guardrail.SeverityCritical},
			},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, conf := c.Classify(Context{
				Query:      "summarize the vendor onboarding process",
				Violations: tt.violations,
				Evidence:   evidence,
			})
			if !almostEqual(conf, tt.want) {
				t.Errorf("confidence = %v, want %v", conf, tt.want)
			}
		})
	}
}

func TestParseTierRoundTrip(t *testing.T) {
	for _, tier := range []Tier{TierMinimal, TierLimited, TierHigh, TierCritical} {
		if got := ParseTier(tier.String()); got != tier {
			t.Errorf("ParseTier(%q) = %s", tier.String(), got)
		}
	}

	// Unreadable stored values read as needing oversight.
	if got := ParseTier("corrupted"); got != TierHigh {
		t.Errorf("ParseTier on unknown input = %s, want high", got)
	}
}

func TestMaxTier(t *testing.T) {
	if got := MaxTier(TierLimited, TierCritical); got != TierCritical {
		t.Errorf("MaxTier = %s, want critical", got)
	}
	if got := MaxTier(TierHigh, TierMinimal); got != TierHigh {
		t.Errorf("MaxTier = %s, want high", got)
	}
}
