package risk

import "risk-copilot-be/pkg/guardrail"

// Tier is the ordered risk classification of a response. The ordering is
// load-bearing: escalation always takes the maximum of competing tiers.
type Tier int

const (
	TierMinimal Tier = iota + 1
	TierLimited
	TierHigh
	TierCritical
)

func (t Tier) String() string {
	switch t {
	case TierMinimal:
		return "minimal"
	case TierLimited:
		return "limited"
	case TierHigh:
		return "high"
	case TierCritical:
		return "critical"
	default:
		return "unknown"
	}
}

func (t Tier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// ParseTier is the inverse of String. Unknown input maps to TierHigh so a
// bad stored value reads as needing oversight rather than as safe.
func ParseTier(s string) Tier {
	switch s {
	case "minimal":
		return TierMinimal
	case "limited":
		return TierLimited
	case "critical":
		return TierCritical
	default:
		return TierHigh
	}
}

// MaxTier returns the higher of two tiers.
func MaxTier(a, b Tier) Tier {
	if a > b {
		return a
	}
	return b
}

// TierForSeverity maps a violation severity to the minimum tier it implies.
func TierForSeverity(s guardrail.Severity) Tier {
	switch s {
	case guardrail.SeverityCritical:
		return TierCritical
	case guardrail.SeverityHigh:
		return TierHigh
	case guardrail.SeverityMedium:
		return TierLimited
	default:
		return TierMinimal
	}
}
