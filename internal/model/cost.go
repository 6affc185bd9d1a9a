package model

import "time"

// CostUsage captures the raw token usage of one processing attempt.
type CostUsage struct {
	ClientID         string
	CallID           string
	Model            string
	InputTokens      int
	OutputTokens     int
	ProcessingTimeMs int64
}

// CostRecord is the persisted cost of one processing attempt. Reprocessing a
// call creates a new record rather than replacing the old one.
type CostRecord struct {
	CreatedAt        time.Time
	ID               string
	ClientID         string
	CallID           string
	Model            string
	InputTokens      int
	OutputTokens     int
	TotalCostUSD     float64
	ProcessingTimeMs int64
}

// ModelRate holds per-million-token prices for a model.
type ModelRate struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// CostRates maps model names to their token prices.
type CostRates struct {
	Models  map[string]ModelRate
	Default ModelRate
}

// RateFor returns the configured rate for a model, falling back to Default.
func (r CostRates) RateFor(name string) ModelRate {
	if rate, ok := r.Models[name]; ok {
		return rate
	}
	return r.Default
}

// Cost computes the dollar cost of a usage at this rate.
func (m ModelRate) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1_000_000*m.InputPerMillion +
		float64(outputTokens)/1_000_000*m.OutputPerMillion
}
