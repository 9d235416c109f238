package integration

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"drive-assistant-be/pkg/llm"
	"drive-assistant-be/pkg/llm/factory"

	"github.com/stretchr/testify/assert"
)

// Exercises a locally running Ollama server through the provider
// abstraction. Requires `ollama serve` with the model pulled, so it is
// gated behind OLLAMA_INTEGRATION.
func TestOllamaProvider(t *testing.T) {
	if os.Getenv("OLLAMA_INTEGRATION") == "" {
		t.Skip("Skipping: set OLLAMA_INTEGRATION=1 to run against a local Ollama server")
	}

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "gemma:2b"
	}

	provider, err := factory.NewLLMProvider("ollama", factory.Settings{
		ModelName:     model,
		OllamaBaseURL: baseURL,
	})
	if err != nil {
		t.Fatalf("Failed to build provider: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	t.Run("Generate", func(t *testing.T) {
		reply, err := provider.Generate(ctx, "Reply with the single word: pong", llm.WithTemperature(0))
		assert.NoError(t, err)
		assert.NotEmpty(t, reply)
		t.Logf("Generate reply: %s", reply)
	})

	t.Run("Chat With History", func(t *testing.T) {
		history := []llm.Message{
			{Role: "user", Content: "My favorite color is teal. Remember it."},
			{Role: "assistant", Content: "Noted, your favorite color is teal."},
			{Role: "user", Content: "What is my favorite color? Answer with just the color."},
		}
		reply, err := provider.Chat(ctx, history, llm.WithTemperature(0))
		assert.NoError(t, err)
		assert.True(t, strings.Contains(strings.ToLower(reply), "teal"),
			"expected the model to recall the color, got: %s", reply)
	})
}
