package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/outwell/callscope/internal/common"
	"github.com/outwell/callscope/internal/prompt"
	"github.com/spf13/cobra"
)

func promptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt <call-id>",
		Short: "Preview the prompt that would be sent to the model",
		Args:  cobra.ExactArgs(1),
		RunE:  runPrompt,
	}

	cmd.Flags().StringP("client", "c", "", "tenant client id (required)")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func runPrompt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	callID := args[0]
	clientID, _ := cmd.Flags().GetString("client")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	tax, err := initTaxonomy()
	if err != nil {
		return err
	}

	call, err := store.GetCall(ctx, callID, clientID)
	if err != nil {
		return err
	}

	tenant, err := store.GetTenantConfig(ctx, clientID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	p := prompt.NewBuilder(tax).Build(tenant, call, call.Transcript)

	fmt.Println(titleStyle.Render("─── System prompt ───"))
	fmt.Println(p.System)
	fmt.Println(titleStyle.Render("─── User message ───"))
	fmt.Println(p.User)
	return nil
}
