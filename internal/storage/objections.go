package storage

import (
	"context"
	"fmt"

	"github.com/outwell/callscope/internal/model"
)

// ReplaceObjections deletes all stored objections for a call and inserts the
// new set in a single transaction. Reprocessing replaces, never appends; an
// empty slice just clears the old rows.
func (s *SQLiteStorage) ReplaceObjections(ctx context.Context, callID, clientID string, objections []model.ObjectionRecord) error {
	if err := validateCallKey(ctx, callID, clientID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM objections WHERE call_id = ? AND client_id = ?`,
		callID, clientID); err != nil {
		return fmt.Errorf("failed to delete objections: %w", err)
	}

	for i := range objections {
		o := &objections[i]
		if err := validateString(o.ID, "objection.ID"); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO objections (id, client_id, call_id, closer_name,
				objection_type, objection_text, closer_response, was_overcome,
				timestamp_approximate, timestamp_seconds, timestamp_minutes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, clientID, callID, o.CloserName, o.Type, o.Text,
			o.CloserResponse, o.WasOvercome, o.TimestampApproximate,
			o.TimestampSeconds, o.TimestampMinutes); err != nil {
			return fmt.Errorf("failed to insert objection %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// ListObjections returns the stored objections for a call in insertion order.
func (s *SQLiteStorage) ListObjections(ctx context.Context, callID, clientID string) ([]model.ObjectionRecord, error) {
	if err := validateCallKey(ctx, callID, clientID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, call_id, closer_name, objection_type,
			objection_text, closer_response, was_overcome,
			timestamp_approximate, timestamp_seconds, timestamp_minutes,
			created_at, updated_at
		FROM objections
		WHERE call_id = ? AND client_id = ?
		ORDER BY created_at, id`, callID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list objections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var objections []model.ObjectionRecord
	for rows.Next() {
		var o model.ObjectionRecord
		if err := rows.Scan(&o.ID, &o.ClientID, &o.CallID, &o.CloserName,
			&o.Type, &o.Text, &o.CloserResponse, &o.WasOvercome,
			&o.TimestampApproximate, &o.TimestampSeconds,
			&o.TimestampMinutes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan objection: %w", err)
		}
		objections = append(objections, o)
	}
	return objections, rows.Err()
}
