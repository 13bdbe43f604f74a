package embedding

import "context"

// Task types hint the provider how the embedding will be used. Gemini
// distinguishes these; Ollama ignores them.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

// Provider generates a vector embedding for a piece of text.
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
