package llm

import (
	"fmt"
	"strings"
)

// NewClient creates a model client based on the provided configuration.
// MaxRetries > 0 wraps the client with transport-level retry; the processing
// engine itself never retries.
func NewClient(cfg Config) (Client, error) {
	var (
		client Client
		err    error
	)

	switch strings.ToLower(cfg.Provider) {
	case "anthropic":
		client, err = newAnthropicClient(cfg)
	case "openai":
		client, err = newOpenAIClient(cfg)
	case "mock":
		client = NewMockClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.MaxRetries > 0 {
		client = withRetry(client, cfg.MaxRetries)
	}

	return client, nil
}
