package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"drive-assistant-be/pkg/llm"
)

// OpenAIProvider serves any OpenAI-compatible endpoint (OpenAI itself,
// Azure OpenAI, or a local gateway exposing the same API).
type OpenAIProvider struct {
	client    *openai.Client
	modelName string
}

var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, baseURL, modelName string) *OpenAIProvider {
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientConfig),
		modelName: modelName,
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]openai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = openai.ChatMessageRoleAssistant
		}
		messages[i] = openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	model := p.modelName
	if options.Model != "" {
		model = options.Model
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai error: empty choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
