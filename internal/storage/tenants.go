package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/outwell/callscope/internal/common"
	"github.com/outwell/callscope/internal/model"
)

// GetTenantConfig loads a tenant's prompt customization config.
func (s *SQLiteStorage) GetTenantConfig(ctx context.Context, clientID string) (*model.TenantConfig, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}

	var cfg model.TenantConfig
	err := s.db.QueryRowContext(ctx, `
		SELECT client_id, name, custom_scoring_instructions, script_template,
			disqualification_criteria, offer_details, created_at, updated_at
		FROM tenant_configs WHERE client_id = ?`, clientID).Scan(
		&cfg.ClientID, &cfg.Name, &cfg.CustomScoringInstructions,
		&cfg.ScriptTemplate, &cfg.DisqualificationCriteria,
		&cfg.OfferDetails, &cfg.CreatedAt, &cfg.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewNotFoundError("tenant config", clientID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant config: %w", err)
	}
	return &cfg, nil
}

// UpsertTenantConfig creates or replaces a tenant's config.
func (s *SQLiteStorage) UpsertTenantConfig(ctx context.Context, cfg *model.TenantConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: cfg", ErrNilParameter)
	}
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(cfg.ClientID, "clientID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tenant_configs (client_id, name, custom_scoring_instructions,
			script_template, disqualification_criteria, offer_details)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			name = excluded.name,
			custom_scoring_instructions = excluded.custom_scoring_instructions,
			script_template = excluded.script_template,
			disqualification_criteria = excluded.disqualification_criteria,
			offer_details = excluded.offer_details,
			updated_at = CURRENT_TIMESTAMP`,
		cfg.ClientID, cfg.Name, cfg.CustomScoringInstructions,
		cfg.ScriptTemplate, cfg.DisqualificationCriteria, cfg.OfferDetails)
	if err != nil {
		return fmt.Errorf("failed to upsert tenant config: %w", err)
	}
	return nil
}
