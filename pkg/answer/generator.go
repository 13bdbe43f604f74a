package answer

import (
	"context"
	"log"

	"risk-copilot-be/pkg/llm"
	"risk-copilot-be/pkg/retrieval"
)

// Generator produces the draft answer. It owns two responsibilities only:
// building a grounding prompt from exactly the evidence it is given, and
// falling back to a canned answer when the completion service fails. Text
// synthesis itself is delegated to the llm.Provider.
type Generator struct {
	provider        llm.Provider
	maxContextChars int
	logger          *log.Logger
}

func NewGenerator(provider llm.Provider, maxContextChars int, logger *log.Logger) *Generator {
	if maxContextChars <= 0 {
		maxContextChars = 3000
	}
	return &Generator{
		provider:        provider,
		maxContextChars: maxContextChars,
		logger:          logger,
	}
}

// Generate returns the draft answer and whether the completion collaborator
// failed (in which case the returned answer is the deterministic fallback).
// It never returns an error to the caller: a degraded, labeled answer beats
// a hard failure.
func (g *Generator) Generate(ctx context.Context, query string, evidence []retrieval.Evidence) (string, bool) {
	if len(evidence) == 0 {
		// No grounding available. Saying so beats a confident fabrication.
		g.logger.Printf("[GENERATE] no evidence, returning no-relevant-policy message")
		return NoRelevantPolicyMessage, false
	}

	prompt := buildGroundedPrompt(query, evidence, g.maxContextChars)

	history := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}

	response, err := g.provider.Chat(ctx, history, llm.WithTemperature(0.3))
	if err != nil {
		g.logger.Printf("[GENERATE] completion service failed, using fallback: %v", err)
		return FallbackAnswer(query), true
	}

	g.logger.Printf("[GENERATE] answer generated from %d passages (%d chars)",
		len(evidence), len(response))
	return response, false
}
