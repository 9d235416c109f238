package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"drive-assistant-be/pkg/llm"
	"drive-assistant-be/pkg/utils"
)

// maxPromptChars bounds the document text embedded in a prompt. Long
// documents are truncated here so callers can pass full extracted text.
const maxPromptChars = 12000

// chunkOverlap keeps sentences cut at a chunk boundary visible in the
// next chunk when summarizing long documents piecewise.
const chunkOverlap = 400

// maxSummaryChunks caps how many chunks of a long document are
// summarized individually before the partial summaries are merged.
const maxSummaryChunks = 4

// Service is the single summarize/answer/chat surface the assistant
// engine talks to, regardless of which LLM backend is active.
type Service struct {
	provider llm.LLMProvider
	enabled  bool
	logger   *log.Logger
}

// NewService wraps an LLM provider. A nil provider yields a disabled
// service: Enabled() reports false and no call reaches the network.
func NewService(provider llm.LLMProvider, logger *log.Logger) *Service {
	return &Service{
		provider: provider,
		enabled:  provider != nil,
		logger:   logger,
	}
}

// Disabled returns a sentinel service with no backend configured
func Disabled() *Service {
	return &Service{enabled: false}
}

// Enabled reports whether an LLM backend is configured
func (s *Service) Enabled() bool {
	return s.enabled
}

// Summarize produces a short summary of text. Returns "" without error
// when no backend is configured.
func (s *Service) Summarize(ctx context.Context, text, title string) (string, error) {
	if !s.enabled {
		return "", nil
	}
	if len(text) > maxPromptChars {
		return s.summarizeLong(ctx, text, title)
	}
	reply, err := s.provider.Generate(ctx, summaryPrompt(text, title), llm.WithTemperature(0.3))
	if err != nil {
		s.logf("[AI] summarize failed: %v", err)
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// summarizeLong summarizes each chunk of an oversized document and then
// merges the partial summaries into one. Chunks beyond maxSummaryChunks
// are dropped rather than blowing the request budget.
func (s *Service) summarizeLong(ctx context.Context, text, title string) (string, error) {
	chunks := utils.SplitText(text, maxPromptChars, chunkOverlap)
	if len(chunks) > maxSummaryChunks {
		chunks = chunks[:maxSummaryChunks]
	}

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		part, err := s.provider.Generate(ctx, summaryPrompt(chunk, title), llm.WithTemperature(0.3))
		if err != nil {
			s.logf("[AI] summarize chunk %d failed: %v", i+1, err)
			return "", err
		}
		partials = append(partials, strings.TrimSpace(part))
	}
	if len(partials) == 1 {
		return partials[0], nil
	}

	merged := fmt.Sprintf(
		"The following are partial summaries of consecutive sections of the document %q. Combine them into one 3-5 sentence summary.\n\n%s",
		title, strings.Join(partials, "\n\n"),
	)
	reply, err := s.provider.Generate(ctx, merged, llm.WithTemperature(0.3))
	if err != nil {
		s.logf("[AI] summarize merge failed: %v", err)
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func summaryPrompt(text, title string) string {
	return fmt.Sprintf(
		"Summarize the following document titled %q in 3-5 sentences. Focus on the purpose, key points and any decisions or action items.\n\nDocument:\n%s",
		title, text,
	)
}

// Answer answers a question strictly from the given document text
func (s *Service) Answer(ctx context.Context, text, question, title string) (string, error) {
	if !s.enabled {
		return "", fmt.Errorf("no AI backend configured")
	}
	prompt := fmt.Sprintf(
		"You are answering questions about the document %q. Use only the document content below. If the answer is not in the document, say so.\n\nDocument:\n%s\n\nQuestion: %s",
		title, truncate(text), question,
	)
	reply, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		s.logf("[AI] answer failed: %v", err)
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// Chat handles generic conversation with a bounded history window
func (s *Service) Chat(ctx context.Context, message string, history []llm.Message) (string, error) {
	if !s.enabled {
		return "", fmt.Errorf("no AI backend configured")
	}
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: "You are a helpful workplace knowledge assistant. Answer briefly and concretely.",
	})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: message})

	reply, err := s.provider.Chat(ctx, messages, llm.WithTemperature(0.7))
	if err != nil {
		s.logf("[AI] chat failed: %v", err)
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// ExtractImpactedAreas pulls the impacted systems/areas out of a change
// request document
func (s *Service) ExtractImpactedAreas(ctx context.Context, text, title string) (string, error) {
	if !s.enabled {
		return "", nil
	}
	prompt := fmt.Sprintf(
		"From the change request document %q below, list the impacted systems, modules or business areas as short bullet points. If none are mentioned, reply with 'Not specified'.\n\nDocument:\n%s",
		title, truncate(text),
	)
	reply, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		s.logf("[AI] impacted areas failed: %v", err)
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// SuggestQuestions asks for up to three follow-up questions a reader of
// the document would likely ask
func (s *Service) SuggestQuestions(ctx context.Context, text, title string) ([]string, error) {
	if !s.enabled {
		return nil, nil
	}
	prompt := fmt.Sprintf(
		"Suggest exactly 3 short follow-up questions a reader of the document %q might ask next. Reply with one question per line, no numbering.\n\nDocument:\n%s",
		title, truncate(text),
	)
	reply, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.5))
	if err != nil {
		s.logf("[AI] suggest questions failed: %v", err)
		return nil, err
	}
	return parseQuestionList(reply), nil
}

// parseQuestionList splits an LLM reply into clean question lines,
// tolerating numbering and bullets the model adds anyway
func parseQuestionList(reply string) []string {
	var questions []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789.-)* ")
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == 3 {
			break
		}
	}
	return questions
}

func truncate(text string) string {
	if len(text) > maxPromptChars {
		return text[:maxPromptChars]
	}
	return text
}

func (s *Service) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
