package answer

import "strings"

// Fixed response texts. These are deliberately canned: when the completion
// service is down or a request is blocked, the user gets a labeled stock
// answer, never a fabricated one.

// NoRelevantPolicyMessage is returned when retrieval found nothing above
// the similarity threshold.
const NoRelevantPolicyMessage = "I could not find any relevant policy documents for your question. " +
	"Please consult the Model Risk Management Policy, the AI Governance Policy, " +
	"or the Operational Risk Framework directly, or rephrase your question to " +
	"reference a specific policy area."

// RefusalMessage is the answer on the ABORTED path.
const RefusalMessage = "I cannot process this request because it conflicts with our safety " +
	"and compliance guidelines. The attempt has been recorded for review."

// serviceFallbacks are topic-keyed stock answers used when the completion
// service is unavailable. Clearly labeled so nobody mistakes them for a
// generated, grounded response.
const fallbackHeader = "[Automated fallback response - the answer service is temporarily unavailable]\n\n"

func fallbackBody(query string) string {
	lower := strings.ToLower(query)

	switch {
	case strings.Contains(lower, "model risk"):
		return "Model risk refers to the potential for adverse consequences from " +
			"decisions based on incorrect or misused model outputs. Key aspects include " +
			"methodology errors, implementation mistakes, use outside the intended " +
			"purpose, data quality issues, and performance degradation. For binding " +
			"requirements, refer to the Model Risk Management Policy."
	case strings.Contains(lower, "ai") || strings.Contains(lower, "llm"):
		return "AI governance ensures responsible and ethical AI deployment in banking. " +
			"Core principles are transparency, fairness, security and privacy, human " +
			"oversight, and regulatory compliance. Consult the AI Governance Policy for " +
			"detailed requirements."
	case strings.Contains(lower, "compliance") || strings.Contains(lower, "regulatory"):
		return "Regulatory compliance in banking covers Basel III/IV requirements, the " +
			"EU AI Act, GDPR, anti-money-laundering and know-your-customer obligations. " +
			"Specific requirements vary by jurisdiction and business area."
	default:
		return "I cannot generate a grounded answer right now. For authoritative " +
			"information please consult the Model Risk Management Policy, the AI " +
			"Governance Policy, or the Operational Risk Framework."
	}
}

// FallbackAnswer is the deterministic stock answer used when the external
// completion service fails or times out.
func FallbackAnswer(query string) string {
	return fallbackHeader + fallbackBody(query)
}
