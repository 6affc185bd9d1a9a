package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS tenant_configs (
					client_id TEXT PRIMARY KEY,
					name TEXT NOT NULL DEFAULT '',
					custom_scoring_instructions TEXT NOT NULL DEFAULT '',
					script_template TEXT NOT NULL DEFAULT '',
					disqualification_criteria TEXT NOT NULL DEFAULT '',
					offer_details TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS calls (
					id TEXT PRIMARY KEY,
					client_id TEXT NOT NULL,
					closer_name TEXT NOT NULL DEFAULT '',
					prospect_name TEXT NOT NULL DEFAULT '',
					call_type TEXT NOT NULL DEFAULT '',
					duration_seconds INTEGER NOT NULL DEFAULT 0,
					transcript TEXT NOT NULL DEFAULT '',
					stage TEXT NOT NULL DEFAULT '',
					outcome TEXT NOT NULL DEFAULT '',
					scores TEXT NOT NULL DEFAULT '{}',
					summary TEXT NOT NULL DEFAULT '',
					coaching_notes TEXT NOT NULL DEFAULT '',
					disqualification_reason TEXT NOT NULL DEFAULT '',
					processing_status TEXT NOT NULL DEFAULT 'queued',
					processing_error TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_calls_client ON calls(client_id)`,
				`CREATE INDEX idx_calls_status ON calls(processing_status)`,

				`CREATE TABLE IF NOT EXISTS objections (
					id TEXT PRIMARY KEY,
					client_id TEXT NOT NULL,
					call_id TEXT NOT NULL,
					closer_name TEXT NOT NULL DEFAULT '',
					objection_type TEXT NOT NULL,
					objection_text TEXT NOT NULL DEFAULT '',
					closer_response TEXT NOT NULL DEFAULT '',
					was_overcome BOOLEAN NOT NULL DEFAULT 0,
					timestamp_approximate TEXT,
					timestamp_seconds INTEGER,
					timestamp_minutes REAL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_objections_call ON objections(call_id, client_id)`,
				`CREATE INDEX idx_objections_type ON objections(objection_type)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add cost records and audit log",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS cost_records (
					id TEXT PRIMARY KEY,
					client_id TEXT NOT NULL,
					call_id TEXT NOT NULL,
					model TEXT NOT NULL,
					input_tokens INTEGER NOT NULL DEFAULT 0,
					output_tokens INTEGER NOT NULL DEFAULT 0,
					total_cost_usd REAL NOT NULL DEFAULT 0,
					processing_time_ms INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_cost_records_call ON cost_records(call_id, client_id)`,

				`CREATE TABLE IF NOT EXISTS audit_log (
					id TEXT PRIMARY KEY,
					client_id TEXT NOT NULL,
					entity_type TEXT NOT NULL,
					entity_id TEXT NOT NULL,
					action TEXT NOT NULL,
					field_changed TEXT NOT NULL DEFAULT '',
					old_value TEXT NOT NULL DEFAULT '',
					new_value TEXT NOT NULL DEFAULT '',
					trigger_source TEXT NOT NULL DEFAULT '',
					trigger_detail TEXT NOT NULL DEFAULT '',
					metadata TEXT NOT NULL DEFAULT '{}',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_audit_log_entity ON audit_log(entity_type, entity_id)`,
				`CREATE INDEX idx_audit_log_client ON audit_log(client_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	return nil
}
