package factory

import (
	"fmt"

	"drive-assistant-be/pkg/llm"
	"drive-assistant-be/pkg/llm/gemini"
	"drive-assistant-be/pkg/llm/ollama"
	"drive-assistant-be/pkg/llm/openai"
)

// Settings carries the provider-specific knobs so the switch below
// stays readable
type Settings struct {
	ModelName     string
	OllamaBaseURL string
	OpenAIBaseURL string
	APIKey        string
}

func NewLLMProvider(providerType string, s Settings) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.ModelName), nil
	case "gemini":
		if s.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(s.APIKey, s.ModelName), nil
	case "openai":
		if s.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewOpenAIProvider(s.APIKey, s.OpenAIBaseURL, s.ModelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
