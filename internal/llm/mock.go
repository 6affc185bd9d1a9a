package llm

import (
	"context"
	"sync"
)

// MockClient is a deterministic Client for tests and offline runs (provider
// "mock"). It replays a configurable response and records every request.
type MockClient struct {
	mu       sync.Mutex
	response Response
	err      error
	requests []Request
}

// NewMockClient creates a mock client with a plausible canned analysis.
func NewMockClient() *MockClient {
	return &MockClient{
		response: Response{
			Text: `{
  "call_outcome": "Follow Up",
  "scores": {
    "discovery_score": 7.0,
    "rapport_score": 8.0,
    "objection_handling_score": 6.0,
    "closing_score": 5.5,
    "overall_score": 6.5
  },
  "summary": "Prospect engaged well but asked for time to decide.",
  "objections": [
    {
      "objection_type": "think_about",
      "objection_text": "I need to think it over.",
      "closer_response": "Asked what specifically needed more thought.",
      "was_overcome": false,
      "timestamp_approximate": "32:10"
    }
  ],
  "coaching_notes": "Isolate the objection before offering to follow up.",
  "disqualification_reason": null
}`,
			Model:        "mock",
			InputTokens:  1200,
			OutputTokens: 180,
		},
	}
}

// SetResponse overrides the canned response.
func (m *MockClient) SetResponse(resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = resp
}

// SetError makes every Complete call fail with err.
func (m *MockClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns a copy of the recorded requests.
func (m *MockClient) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Complete records the request and replays the configured response.
func (m *MockClient) Complete(_ context.Context, req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return Response{}, m.err
	}
	return m.response, nil
}
