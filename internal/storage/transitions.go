package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/outwell/callscope/internal/common"
	"github.com/outwell/callscope/internal/model"
)

// Terminal pipeline stages. A call that has already landed in one of these
// cannot be transitioned again; the engine falls back to a plain field update.
var terminalStages = map[string]struct{}{
	"Closed - Won": {},
	"Disqualified": {},
}

// TransitionStage moves a call to a new pipeline stage and applies the
// analysis field updates in the same statement. Returns false (with no error)
// when the call is not in a transitionable stage; that is a non-fatal
// rejection, not a failure.
func (s *SQLiteStorage) TransitionStage(ctx context.Context, callID, clientID, newStage, triggerSource string, results model.CallResults) (bool, error) {
	if err := validateCallKey(ctx, callID, clientID); err != nil {
		return false, err
	}
	if err := validateString(newStage, "newStage"); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var currentStage string
	err = tx.QueryRowContext(ctx,
		`SELECT stage FROM calls WHERE id = ? AND client_id = ?`,
		callID, clientID).Scan(&currentStage)
	if errors.Is(err, sql.ErrNoRows) {
		return false, common.NewNotFoundError("call", callID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to read call stage: %w", err)
	}

	if _, terminal := terminalStages[currentStage]; terminal {
		return false, nil
	}

	scoresJSON, err := json.Marshal(results.Scores)
	if err != nil {
		return false, fmt.Errorf("failed to marshal scores: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE calls
		SET stage = ?, outcome = ?, scores = ?, summary = ?,
			coaching_notes = ?, disqualification_reason = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND client_id = ?`,
		newStage, results.Outcome, string(scoresJSON), results.Summary,
		results.CoachingNotes, results.DisqualificationReason,
		callID, clientID)
	if err != nil {
		return false, fmt.Errorf("failed to transition call stage: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit stage transition: %w", err)
	}

	slog.Debug("Call stage transitioned",
		"call_id", callID,
		"from", currentStage,
		"to", newStage,
		"trigger", triggerSource)
	return true, nil
}
