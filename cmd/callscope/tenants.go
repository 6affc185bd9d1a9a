package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/outwell/callscope/internal/common"
	"github.com/outwell/callscope/internal/model"
	"github.com/outwell/callscope/internal/storage"
	"github.com/spf13/cobra"
)

func tenantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "Manage tenant prompt configuration",
	}

	cmd.AddCommand(tenantsSetCmd())
	cmd.AddCommand(tenantsShowCmd())
	return cmd
}

func tenantsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <client-id>",
		Short: "Create or update a tenant's prompt customizations",
		Args:  cobra.ExactArgs(1),
		RunE:  runTenantsSet,
	}

	cmd.Flags().String("name", "", "tenant display name")
	cmd.Flags().String("scoring", "", "custom scoring instructions file")
	cmd.Flags().String("script", "", "script template file")
	cmd.Flags().String("disqualification", "", "disqualification criteria file")
	cmd.Flags().String("offer", "", "offer details file")

	return cmd
}

// loadOrInitTenantConfig fetches the stored tenant config, or starts a fresh
// one when none exists yet. Read failures other than not-found are returned
// so an existing config is never silently overwritten.
func loadOrInitTenantConfig(ctx context.Context, store *storage.SQLiteStorage, clientID string) (*model.TenantConfig, error) {
	existing, err := store.GetTenantConfig(ctx, clientID)
	if err == nil {
		return existing, nil
	}
	if errors.Is(err, common.ErrNotFound) {
		return &model.TenantConfig{ClientID: clientID}, nil
	}
	return nil, fmt.Errorf("failed to read tenant config: %w", err)
}

func runTenantsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	clientID := args[0]

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	cfg, err := loadOrInitTenantConfig(ctx, store, clientID)
	if err != nil {
		return err
	}

	if name, _ := cmd.Flags().GetString("name"); name != "" {
		cfg.Name = name
	}

	fileFields := []struct {
		flag string
		dest *string
	}{
		{"scoring", &cfg.CustomScoringInstructions},
		{"script", &cfg.ScriptTemplate},
		{"disqualification", &cfg.DisqualificationCriteria},
		{"offer", &cfg.OfferDetails},
	}
	for _, field := range fileFields {
		path, _ := cmd.Flags().GetString(field.flag)
		if path == "" {
			continue
		}
		content, readErr := readTranscript(path)
		if readErr != nil {
			return readErr
		}
		*field.dest = content
	}

	if err := store.UpsertTenantConfig(ctx, cfg); err != nil {
		return err
	}

	fmt.Printf("%s Tenant config saved for %s\n", successStyle.Render("✓"), clientID)
	return nil
}

func tenantsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <client-id>",
		Short: "Show a tenant's prompt customizations",
		Args:  cobra.ExactArgs(1),
		RunE:  runTenantsShow,
	}
	return cmd
}

func runTenantsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	clientID := args[0]

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	cfg, err := store.GetTenantConfig(ctx, clientID)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Tenant " + cfg.ClientID))
	if cfg.Name != "" {
		fmt.Printf("  Name: %s\n", cfg.Name)
	}
	sections := []struct {
		label string
		body  string
	}{
		{"Scoring instructions", cfg.CustomScoringInstructions},
		{"Script template", cfg.ScriptTemplate},
		{"Disqualification criteria", cfg.DisqualificationCriteria},
		{"Offer details", cfg.OfferDetails},
	}
	for _, section := range sections {
		if section.body == "" {
			fmt.Printf("  %-26s %s\n", section.label+":", subtleStyle.Render("(none)"))
			continue
		}
		fmt.Printf("  %-26s %d chars\n", section.label+":", len(section.body))
	}
	return nil
}
