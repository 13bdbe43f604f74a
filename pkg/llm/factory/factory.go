package factory

import (
	"fmt"
	"time"

	"risk-copilot-be/pkg/llm"
	"risk-copilot-be/pkg/llm/huggingface"
	"risk-copilot-be/pkg/llm/ollama"
)

// NewProvider builds an LLM provider from config values.
func NewProvider(providerType, modelName, baseURL, apiKey string, timeout time.Duration) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewProvider(baseURL, modelName, timeout), nil
	case "huggingface":
		return huggingface.NewProvider(apiKey, "", modelName, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
