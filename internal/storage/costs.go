package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/outwell/callscope/internal/model"
)

// RecordCost computes the dollar cost of one processing attempt from the
// configured per-million rates and persists it. Every attempt gets its own
// record.
func (s *SQLiteStorage) RecordCost(ctx context.Context, usage model.CostUsage) (*model.CostRecord, error) {
	if err := validateCallKey(ctx, usage.CallID, usage.ClientID); err != nil {
		return nil, err
	}

	rate := s.rates.RateFor(usage.Model)
	record := &model.CostRecord{
		ID:               uuid.NewString(),
		ClientID:         usage.ClientID,
		CallID:           usage.CallID,
		Model:            usage.Model,
		InputTokens:      usage.InputTokens,
		OutputTokens:     usage.OutputTokens,
		TotalCostUSD:     rate.Cost(usage.InputTokens, usage.OutputTokens),
		ProcessingTimeMs: usage.ProcessingTimeMs,
		CreatedAt:        time.Now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cost_records (id, client_id, call_id, model, input_tokens,
			output_tokens, total_cost_usd, processing_time_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.ClientID, record.CallID, record.Model,
		record.InputTokens, record.OutputTokens, record.TotalCostUSD,
		record.ProcessingTimeMs)
	if err != nil {
		return nil, fmt.Errorf("failed to record cost: %w", err)
	}
	return record, nil
}

// TotalCost sums all recorded costs for a tenant.
func (s *SQLiteStorage) TotalCost(ctx context.Context, clientID string) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return 0, err
	}

	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_cost_usd), 0) FROM cost_records WHERE client_id = ?`,
		clientID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum costs: %w", err)
	}
	return total, nil
}
