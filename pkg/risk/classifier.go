package risk

import (
	"strings"

	"risk-copilot-be/pkg/guardrail"
	"risk-copilot-be/pkg/retrieval"
)

// Query keywords that escalate the minimum tier regardless of what the
// guardrails found. Credit decisions and regulatory capital questions get
// human oversight no matter how clean the text looks.
var highTierKeywords = []string{
	"compliance", "violation", "breach", "penalty", "regulatory",
	"credit decision", "regulatory capital", "protected attribute",
	"protected class", "discriminat",
}

var limitedTierKeywords = []string{
	"validation", "audit", "review", "assessment",
}

// Context is everything the classifier looks at. The final pass sees the
// full picture; the pre-generation pass runs with only inbound violations
// and the just-retrieved evidence.
type Context struct {
	Query      string
	Violations []guardrail.Violation
	Evidence   []retrieval.Evidence
}

// Classifier computes a risk tier and a confidence score. Both passes use
// the same escalation rule: the result is the maximum of the topic tier,
// the violation-implied tier, and the coverage-implied tier.
type Classifier struct {
	// Similarity below this does not count as grounding coverage.
	relevanceThreshold float64
}

func NewClassifier(relevanceThreshold float64) *Classifier {
	return &Classifier{relevanceThreshold: relevanceThreshold}
}

// Classify returns the escalated tier and a confidence in [0, 1].
func (c *Classifier) Classify(ctx Context) (Tier, float64) {
	tier := c.topicTier(ctx.Query)

	for _, v := range ctx.Violations {
		tier = MaxTier(tier, TierForSeverity(v.Severity))
	}

	coverage := retrieval.CoverageAbove(ctx.Evidence, c.relevanceThreshold)
	if coverage == 0 {
		// Nothing above the relevance threshold means an ungrounded
		// answer; flag it for review.
		tier = MaxTier(tier, TierLimited)
	}

	return tier, c.confidence(coverage, ctx.Violations)
}

func (c *Classifier) topicTier(query string) Tier {
	lower := strings.ToLower(query)
	for _, kw := range highTierKeywords {
		if strings.Contains(lower, kw) {
			return TierHigh
		}
	}
	for _, kw := range limitedTierKeywords {
		if strings.Contains(lower, kw) {
			return TierLimited
		}
	}
	return TierMinimal
}

// confidence combines evidence coverage with a penalty per violation. The
// exact weights are a policy choice; the binding contract is that
// confidence never increases when violations are added and grows with
// coverage.
func (c *Classifier) confidence(coverage float64, violations []guardrail.Violation) float64 {
	conf := 0.3 + 0.6*coverage

	for _, v := range violations {
		switch v.Severity {
		case guardrail.SeverityCritical:
			conf -= 0.40
		case guardrail.SeverityHigh:
			conf -= 0.25
		case guardrail.SeverityMedium:
			conf -= 0.10
		default:
			conf -= 0.05
		}
	}

	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}
