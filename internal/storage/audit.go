package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/outwell/callscope/internal/model"
)

// LogAudit appends an entry to the audit log. Callers treat this as
// best-effort; the engine logs and swallows failures rather than aborting
// the pipeline.
func (s *SQLiteStorage) LogAudit(ctx context.Context, entry model.AuditEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(entry.ClientID, "entry.ClientID"); err != nil {
		return err
	}
	if err := validateString(entry.Action, "entry.Action"); err != nil {
		return err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	metadata := "{}"
	if entry.Metadata != nil {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal audit metadata: %w", err)
		}
		metadata = string(raw)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, client_id, entity_type, entity_id, action,
			field_changed, old_value, new_value, trigger_source,
			trigger_detail, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.ClientID, entry.EntityType, entry.EntityID,
		entry.Action, entry.FieldChanged, entry.OldValue, entry.NewValue,
		entry.TriggerSource, entry.TriggerDetail, metadata)
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries returns the most recent audit entries for an entity.
func (s *SQLiteStorage) ListAuditEntries(ctx context.Context, clientID, entityType, entityID string, limit int) ([]model.AuditEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, entity_type, entity_id, action, field_changed,
			old_value, new_value, trigger_source, trigger_detail, metadata,
			created_at
		FROM audit_log
		WHERE client_id = ? AND entity_type = ? AND entity_id = ?
		ORDER BY created_at DESC LIMIT ?`,
		clientID, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.AuditEntry
	for rows.Next() {
		var (
			entry       model.AuditEntry
			metadataRaw string
			createdAt   time.Time
		)
		if err := rows.Scan(&entry.ID, &entry.ClientID, &entry.EntityType,
			&entry.EntityID, &entry.Action, &entry.FieldChanged,
			&entry.OldValue, &entry.NewValue, &entry.TriggerSource,
			&entry.TriggerDetail, &metadataRaw, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.CreatedAt = createdAt
		if metadataRaw != "" && metadataRaw != "{}" {
			if err := json.Unmarshal([]byte(metadataRaw), &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
