package guardrail

import (
	"fmt"
	"sort"
	"strings"
)

// Config toggles each detection family independently. Zero value disables
// everything; use DefaultConfig for the standard posture.
type Config struct {
	CheckPII           bool
	CheckToxicity      bool
	CheckBannedTopics  bool
	CheckInjection     bool
	CheckHallucination bool
	// BannedTopics overrides the built-in denylist when non-empty.
	BannedTopics []string
}

func DefaultConfig() Config {
	return Config{
		CheckPII:           true,
		CheckToxicity:      true,
		CheckBannedTopics:  true,
		CheckInjection:     true,
		CheckHallucination: true,
	}
}

// Engine evaluates text against the configured detection families.
//
// The engine only reports. It never blocks or rewrites text; those
// decisions belong to the pipeline orchestrator. Evaluate is a pure
// function of (text, direction) so the same input always produces the
// same violation list, which keeps audit trails reproducible.
type Engine struct {
	cfg          Config
	bannedTopics []string
}

func NewEngine(cfg Config) *Engine {
	topics := cfg.BannedTopics
	if len(topics) == 0 {
		topics = defaultBannedTopics
	}
	return &Engine{cfg: cfg, bannedTopics: topics}
}

// Evaluate returns every violation found in the text for the given
// direction, in deterministic order.
func (e *Engine) Evaluate(text string, direction Direction) []Violation {
	var violations []Violation
	lower := strings.ToLower(text)

	if e.cfg.CheckPII {
		violations = append(violations, e.checkPII(text, direction)...)
	}

	if e.cfg.CheckBannedTopics && direction == Inbound {
		if topics := e.matchBannedTopics(lower); len(topics) > 0 {
			violations = append(violations, Violation{
				Category:    CategoryBannedTopic,
				Severity:    SeverityMedium,
				Description: fmt.Sprintf("query touches banned topics: %s", strings.Join(topics, ", ")),
			})
		}
	}

	if e.cfg.CheckToxicity {
		if phrase := firstMatch(lower, toxicPhrases); phrase != "" {
			violations = append(violations, Violation{
				Category:    CategoryToxicity,
				Severity:    SeverityHigh,
				Description: "potentially toxic content detected",
				MatchedSpan: phrase,
			})
		}
	}

	if e.cfg.CheckInjection && direction == Inbound {
		if phrase := firstMatch(lower, injectionPhrases); phrase != "" {
			violations = append(violations, Violation{
				Category:    CategoryPromptInjection,
				Severity:    SeverityCritical,
				Description: "potential prompt injection attempt",
				MatchedSpan: phrase,
			})
		}
	}

	if e.cfg.CheckHallucination && direction == Outbound {
		if marker := firstMatch(lower, hallucinationMarkers); marker != "" {
			violations = append(violations, Violation{
				Category:    CategoryHallucinationRisk,
				Severity:    SeverityMedium,
				Description: "answer contains ungrounded-response marker",
				MatchedSpan: marker,
			})
		}
	}

	return violations
}

func (e *Engine) checkPII(text string, direction Direction) []Violation {
	// Outbound PII is worse than inbound: it means the system is about to
	// leak an identifier to the user.
	severity := SeverityHigh
	if direction == Outbound {
		severity = SeverityCritical
	}

	var violations []Violation
	for _, name := range sortedPatternNames() {
		for _, match := range piiPatterns[name].FindAllString(text, -1) {
			violations = append(violations, Violation{
				Category:    CategoryPII,
				Severity:    severity,
				Description: fmt.Sprintf("detected %s in %s text", name, direction),
				MatchedSpan: redactSpan(name, match),
			})
		}
	}
	return violations
}

func (e *Engine) matchBannedTopics(lower string) []string {
	var detected []string
	for _, topic := range e.bannedTopics {
		if strings.Contains(lower, strings.ToLower(topic)) {
			detected = append(detected, topic)
		}
	}
	return detected
}

func firstMatch(lower string, phrases []string) string {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return p
		}
	}
	return ""
}

// Pattern map iteration must be deterministic for reproducible audits.
func sortedPatternNames() []string {
	names := make([]string, 0, len(piiPatterns))
	for name := range piiPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RedactPII rewrites every PII match in the text with its redacted form.
// This lives outside Evaluate on purpose: the engine reports, the sanitize
// stage decides to redact.
func RedactPII(text string) string {
	for _, name := range sortedPatternNames() {
		pattern := piiPatterns[name]
		text = pattern.ReplaceAllStringFunc(text, func(match string) string {
			return redactSpan(name, match)
		})
	}
	return text
}

// redactSpan keeps just enough of the identifier to be recognizable in an
// audit trail without storing the raw value.
func redactSpan(patternName, match string) string {
	switch patternName {
	case "email":
		local := strings.SplitN(match, "@", 2)[0]
		if len(local) > 2 {
			local = local[:2]
		}
		return local + "***@***"
	case "ssn", "credit_card", "iban", "account_number":
		if len(match) > 4 {
			return match[:4] + strings.Repeat("*", len(match)-4)
		}
		return "[REDACTED]"
	default:
		return "[REDACTED]"
	}
}
