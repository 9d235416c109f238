package ai

import (
	"log"

	"drive-assistant-be/pkg/llm"
	"drive-assistant-be/pkg/llm/factory"
)

// ProviderCandidate is one configured backend, tried in order
type ProviderCandidate struct {
	Name     string
	Settings factory.Settings
}

// Negotiation is the result of the one-time capability check at
// process start: which backend is active and which are configured.
type Negotiation struct {
	Active    string
	Available []string
}

// Initialize walks the configured candidates in order and activates the
// first one that constructs. An empty candidate list (or all failures)
// yields a disabled service; the engine checks Enabled() before calling.
func Initialize(candidates []ProviderCandidate, logger *log.Logger) (*Service, Negotiation) {
	var negotiation Negotiation
	var active llm.LLMProvider

	for _, c := range candidates {
		provider, err := factory.NewLLMProvider(c.Name, c.Settings)
		if err != nil {
			if logger != nil {
				logger.Printf("[AI] provider %s unavailable: %v", c.Name, err)
			}
			continue
		}
		negotiation.Available = append(negotiation.Available, c.Name)
		if active == nil {
			active = provider
			negotiation.Active = c.Name
		}
	}

	if active == nil {
		if logger != nil {
			logger.Printf("[AI] no LLM backend configured, assistant runs without AI")
		}
		return Disabled(), negotiation
	}
	return NewService(active, logger), negotiation
}
