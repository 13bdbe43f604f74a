package guardrail

import "regexp"

// PII patterns for structured identifiers. Simplified rule set for the
// financial compliance context; a production deployment would layer a
// dedicated PII service on top.
var piiPatterns = map[string]*regexp.Regexp{
	"ssn":            regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	"credit_card":    regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),
	"email":          regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	"phone":          regexp.MustCompile(`\b(?:\+?1[-.]?)?\(?\d{3}\)?[-.]?\d{3}[-.]?\d{4}\b`),
	"iban":           regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{4}\d{7}[A-Z0-9]{0,16}\b`),
	"passport":       regexp.MustCompile(`\b[A-Z]\d{8}\b`),
	"french_secu":    regexp.MustCompile(`\b[12]\d{2}[0-1]\d\d{8}\b`),
	"account_number": regexp.MustCompile(`\b(?:ACC|IB)[-\s]?\d{8,12}\b`),
}

// Banned topics for the financial context. Matched case-insensitively as
// plain substrings.
var defaultBannedTopics = []string{
	"insider trading",
	"money laundering",
	"tax evasion",
	"market manipulation",
	"ponzi scheme",
	"pyramid scheme",
	"terrorism financing",
}

var toxicPhrases = []string{
	"hate speech",
	"discrimination",
	"harassment",
	"violence",
	"self-harm",
}

var injectionPhrases = []string{
	"ignore previous instructions",
	"disregard all rules",
	"pretend you are",
	"act as if",
	"bypass safety",
	"jailbreak",
}

// Phrases that suggest the model is answering from its own weights rather
// than the supplied evidence. Checked outbound only.
var hallucinationMarkers = []string{
	"as an ai language model",
	"i don't have access to",
	"my training data",
	"i was trained on",
}
