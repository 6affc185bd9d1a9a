package main

import (
	"fmt"
	"log/slog"

	"github.com/outwell/callscope/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Error("Failed to close database", "error", closeErr)
				}
			}()

			msg := fmt.Sprintf("✓ Database migrated to schema version %d", storage.ExpectedSchemaVersion)
			fmt.Println(successStyle.Render(msg))
			return nil
		},
	}
}
