package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/outwell/callscope/internal/common"
	"github.com/outwell/callscope/internal/model"
)

const callColumns = `id, client_id, closer_name, prospect_name, call_type,
	duration_seconds, transcript, stage, outcome, scores, summary,
	coaching_notes, disqualification_reason, processing_status,
	processing_error, created_at, updated_at`

// SaveCall inserts a new call in the queued state.
func (s *SQLiteStorage) SaveCall(ctx context.Context, call *model.Call) error {
	if call == nil {
		return fmt.Errorf("%w: call", ErrNilParameter)
	}
	if err := validateCallKey(ctx, call.ID, call.ClientID); err != nil {
		return err
	}

	status := call.ProcessingStatus
	if status == "" {
		status = model.StatusQueued
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calls (id, client_id, closer_name, prospect_name, call_type,
			duration_seconds, transcript, processing_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		call.ID, call.ClientID, call.CloserName, call.ProspectName,
		call.CallType, call.DurationSeconds, call.Transcript, string(status))
	if err != nil {
		return fmt.Errorf("failed to save call: %w", err)
	}
	return nil
}

// GetCall loads a call by id scoped to a tenant.
func (s *SQLiteStorage) GetCall(ctx context.Context, callID, clientID string) (*model.Call, error) {
	if err := validateCallKey(ctx, callID, clientID); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+callColumns+` FROM calls WHERE id = ? AND client_id = ?`,
		callID, clientID)

	call, err := scanCall(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewNotFoundError("call", callID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get call: %w", err)
	}
	return call, nil
}

// ListCalls returns a tenant's calls, optionally filtered by processing
// status, newest first.
func (s *SQLiteStorage) ListCalls(ctx context.Context, clientID string, status model.ProcessingStatus, limit int) ([]model.Call, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + callColumns + ` FROM calls WHERE client_id = ?`
	args := []any{clientID}
	if status != "" {
		query += ` AND processing_status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var calls []model.Call
	for rows.Next() {
		call, scanErr := scanCall(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan call: %w", scanErr)
		}
		calls = append(calls, *call)
	}
	return calls, rows.Err()
}

// SetProcessingStatus updates the pipeline status of a call. processingError
// is cleared when empty.
func (s *SQLiteStorage) SetProcessingStatus(ctx context.Context, callID, clientID string, status model.ProcessingStatus, processingError string) error {
	if err := validateCallKey(ctx, callID, clientID); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE calls
		SET processing_status = ?, processing_error = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND client_id = ?`,
		string(status), processingError, callID, clientID)
	if err != nil {
		return fmt.Errorf("failed to update processing status: %w", err)
	}
	return requireRowAffected(result, "call", callID)
}

// SaveResults writes the analysis fields onto a call without touching its
// stage. Used as the fallback when a stage transition is rejected.
func (s *SQLiteStorage) SaveResults(ctx context.Context, callID, clientID string, results model.CallResults) error {
	if err := validateCallKey(ctx, callID, clientID); err != nil {
		return err
	}

	scoresJSON, err := json.Marshal(results.Scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE calls
		SET outcome = ?, scores = ?, summary = ?, coaching_notes = ?,
			disqualification_reason = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND client_id = ?`,
		results.Outcome, string(scoresJSON), results.Summary,
		results.CoachingNotes, results.DisqualificationReason,
		callID, clientID)
	if err != nil {
		return fmt.Errorf("failed to save call results: %w", err)
	}
	return requireRowAffected(result, "call", callID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCall(row rowScanner) (*model.Call, error) {
	var (
		call      model.Call
		status    string
		scoresRaw string
	)

	err := row.Scan(&call.ID, &call.ClientID, &call.CloserName,
		&call.ProspectName, &call.CallType, &call.DurationSeconds,
		&call.Transcript, &call.Stage, &call.Outcome, &scoresRaw,
		&call.Summary, &call.CoachingNotes, &call.DisqualificationReason,
		&status, &call.ProcessingError, &call.CreatedAt, &call.UpdatedAt)
	if err != nil {
		return nil, err
	}

	call.ProcessingStatus = model.ProcessingStatus(status)
	if scoresRaw != "" {
		if err := json.Unmarshal([]byte(scoresRaw), &call.Scores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
		}
	}
	return &call, nil
}

func requireRowAffected(result sql.Result, entity, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return common.NewNotFoundError(entity, id)
	}
	return nil
}
