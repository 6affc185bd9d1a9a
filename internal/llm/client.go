// Package llm provides clients for the model providers used by the analysis
// pipeline. Clients return raw completion text plus token usage; all parsing
// of the payload happens downstream.
package llm

import (
	"context"
	"time"
)

// Request is a single completion request.
type Request struct {
	SystemPrompt string
	UserMessage  string
	Model        string
	MaxTokens    int
}

// Response carries the raw completion text and token usage for cost
// accounting.
type Response struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Client defines the interface for model providers.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Config holds provider configuration.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxTokens   int
	MaxRetries  int
	Temperature float64
	Timeout     time.Duration
}
