package llm

import (
	"fmt"
	"strings"
)

// NewClient creates a backend client based on the provided configuration.
// Called once at process start; the returned client is safe for concurrent
// use by parallel client workers.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
