package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/outwell/callscope/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func reprocessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reprocess",
		Short: "Re-run analysis for queued or errored calls",
		Long: `Process every call of a tenant currently in the queued or error state,
sequentially. Errored calls stay eligible: their status is simply overwritten
on the next attempt, and stored objections are replaced, never appended.`,
		RunE: runReprocess,
	}

	cmd.Flags().StringP("client", "c", "", "tenant client id (required)")
	cmd.Flags().String("status", "error", "which calls to pick up (queued, error)")
	cmd.Flags().Int("limit", 50, "maximum number of calls to process")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func runReprocess(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	clientID, _ := cmd.Flags().GetString("client")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	if status != string(model.StatusQueued) && status != string(model.StatusError) {
		return fmt.Errorf("invalid status %q: must be queued or error", status)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	eng, err := initEngine(store)
	if err != nil {
		return err
	}

	calls, err := store.ListCalls(ctx, clientID, model.ProcessingStatus(status), limit)
	if err != nil {
		return fmt.Errorf("failed to list calls: %w", err)
	}
	if len(calls) == 0 {
		fmt.Println(subtleStyle.Render("No calls to process"))
		return nil
	}

	bar := progressbar.NewOptions(len(calls),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Processing calls..."),
	)

	var succeeded, failed int
	for _, call := range calls {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result := eng.ProcessCall(ctx, call.ID, clientID, "")
		if result.Success {
			succeeded++
		} else {
			failed++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Println()

	fmt.Printf("%s %d processed, %s\n",
		successStyle.Render("✓"), succeeded,
		warningStyle.Render(fmt.Sprintf("%d failed", failed)))
	return nil
}
