package answer

import (
	"fmt"
	"strings"

	"risk-copilot-be/pkg/retrieval"
)

const systemPrompt = "You are a risk management assistant for a bank. You answer questions " +
	"about internal risk and compliance policy strictly from the reference material provided."

// buildGroundedPrompt assembles the generation prompt from exactly the
// evidence the pipeline retrieved. Passages are injected verbatim between
// source markers; the instructions forbid outside knowledge so the answer
// stays attributable to the cited documents.
func buildGroundedPrompt(query string, evidence []retrieval.Evidence, maxContextChars int) string {
	var prompt strings.Builder

	prompt.WriteString("<policy_reference_material>\n")
	prompt.WriteString("CRITICAL: This is the ONLY data source. Do NOT use outside knowledge.\n")
	prompt.WriteString("Each passage is a distinct excerpt from an internal policy document.\n\n")

	used := 0
	for _, ev := range evidence {
		block := fmt.Sprintf("--- SOURCE: %s (%s) ---\n%s\n--- END SOURCE ---\n",
			ev.Source.DocumentName, sectionOrGeneral(ev.Section), ev.Excerpt)
		if used+len(block) > maxContextChars {
			break
		}
		prompt.WriteString(block)
		used += len(block)
	}
	prompt.WriteString("</policy_reference_material>\n\n")

	prompt.WriteString("<task_instructions>\n")
	prompt.WriteString("1. Answer the question using only the reference material above.\n")
	prompt.WriteString("2. Be precise and professional; name the source document for each claim.\n")
	prompt.WriteString("3. If the material does not cover the question, say so explicitly.\n")
	prompt.WriteString("4. Never reveal account numbers, personal identifiers, or customer data.\n")
	prompt.WriteString("</task_instructions>\n\n")

	prompt.WriteString(fmt.Sprintf("Question: %s\n", query))

	return prompt.String()
}

func sectionOrGeneral(section string) string {
	if section == "" {
		return "General"
	}
	return section
}
