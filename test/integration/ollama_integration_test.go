package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"risk-copilot-be/pkg/embedding"
	"risk-copilot-be/pkg/llm"
	"risk-copilot-be/pkg/llm/factory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises the real Ollama backend. Set OLLAMA_INTEGRATION=1 with a local
// Ollama running; model names come from the usual env vars.
func ollamaGate(t *testing.T) (baseURL, embedModel, chatModel string) {
	t.Helper()
	if os.Getenv("OLLAMA_INTEGRATION") != "1" {
		t.Skip("Skipping integration test: OLLAMA_INTEGRATION not set")
	}

	baseURL = os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	embedModel = os.Getenv("OLLAMA_EMBEDDING_MODEL")
	if embedModel == "" {
		embedModel = "nomic-embed-text"
	}
	chatModel = os.Getenv("LLM_MODEL")
	if chatModel == "" {
		chatModel = "llama3"
	}
	return baseURL, embedModel, chatModel
}

func TestOllamaEmbedding(t *testing.T) {
	baseURL, embedModel, _ := ollamaGate(t)

	provider := embedding.NewOllamaProvider(baseURL, embedModel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	vec, err := provider.Generate(ctx, "Model validation must be performed annually.", embedding.TaskDocument)
	require.NoError(t, err)
	require.NotEmpty(t, vec)
	t.Logf("Embedding dimension: %d", len(vec))

	// Same text should embed to the same vector.
	again, err := provider.Generate(ctx, "Model validation must be performed annually.", embedding.TaskDocument)
	require.NoError(t, err)
	assert.Equal(t, len(vec), len(again))
}

func TestOllamaChat(t *testing.T) {
	baseURL, _, chatModel := ollamaGate(t)

	provider, err := factory.NewProvider("ollama", chatModel, baseURL, "", 60*time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	response, err := provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "You answer in one short sentence."},
		{Role: "user", Content: "What is model risk?"},
	}, llm.WithTemperature(0.1))
	require.NoError(t, err)
	assert.NotEmpty(t, response)
	t.Logf("Response: %s", response)
}

func TestOllamaChatHonorsCancellation(t *testing.T) {
	baseURL, _, chatModel := ollamaGate(t)

	provider, err := factory.NewProvider("ollama", chatModel, baseURL, "", 60*time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = provider.Chat(ctx, []llm.Message{{Role: "user", Content: "anything"}})
	assert.Error(t, err, "cancelled context must abort the call")
}
