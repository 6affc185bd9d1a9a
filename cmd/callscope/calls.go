package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/outwell/callscope/internal/model"
	"github.com/spf13/cobra"
)

func callsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calls",
		Short: "Manage call records",
	}

	cmd.AddCommand(callsAddCmd())
	cmd.AddCommand(callsListCmd())
	cmd.AddCommand(callsShowCmd())
	return cmd
}

func callsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Queue a new call for analysis",
		Long: `Register a call with its transcript in the queued state. This is the
same shape the webhook hands the pipeline; the call is picked up by
"callscope process" or "callscope reprocess --status queued".`,
		RunE: runCallsAdd,
	}

	cmd.Flags().StringP("client", "c", "", "tenant client id (required)")
	cmd.Flags().StringP("transcript", "t", "", "transcript file (required)")
	cmd.Flags().String("id", "", "call id (default: generated)")
	cmd.Flags().String("closer", "", "closer name")
	cmd.Flags().String("prospect", "", "prospect name")
	cmd.Flags().String("type", "", "call type (e.g. discovery, closing)")
	cmd.Flags().Int("duration", 0, "call duration in seconds")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("transcript")

	return cmd
}

func runCallsAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	clientID, _ := cmd.Flags().GetString("client")
	transcriptPath, _ := cmd.Flags().GetString("transcript")
	callID, _ := cmd.Flags().GetString("id")
	closer, _ := cmd.Flags().GetString("closer")
	prospect, _ := cmd.Flags().GetString("prospect")
	callType, _ := cmd.Flags().GetString("type")
	duration, _ := cmd.Flags().GetInt("duration")

	transcript, err := readTranscript(transcriptPath)
	if err != nil {
		return err
	}

	if callID == "" {
		callID = uuid.NewString()
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

	call := &model.Call{
		ID:              callID,
		ClientID:        clientID,
		CloserName:      closer,
		ProspectName:    prospect,
		CallType:        callType,
		DurationSeconds: duration,
		Transcript:      transcript,
	}
	if err := store.SaveCall(ctx, call); err != nil {
		return err
	}

	fmt.Printf("%s Call %s queued for client %s\n", successStyle.Render("✓"), callID, clientID)
	return nil
}

func callsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a tenant's calls",
		RunE:  runCallsList,
	}

	cmd.Flags().StringP("client", "c", "", "tenant client id (required)")
	cmd.Flags().String("status", "", "filter by processing status")
	cmd.Flags().Int("limit", 50, "maximum number of calls to show")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func runCallsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	clientID, _ := cmd.Flags().GetString("client")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	calls, err := store.ListCalls(ctx, clientID, model.ProcessingStatus(status), limit)
	if err != nil {
		return err
	}
	if len(calls) == 0 {
		fmt.Println(subtleStyle.Render("No calls found"))
		return nil
	}

	for _, call := range calls {
		fmt.Printf("%-38s %-12s %-16s %s\n",
			call.ID, renderStatus(call.ProcessingStatus), call.Outcome, call.CloserName)
	}
	return nil
}

func callsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <call-id>",
		Short: "Show a call with its objections and audit history",
		Args:  cobra.ExactArgs(1),
		RunE:  runCallsShow,
	}

	cmd.Flags().StringP("client", "c", "", "tenant client id (required)")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func runCallsShow(cmd *cobra.Command, args []string) error {
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

	call, err := store.GetCall(ctx, callID, clientID)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Call " + call.ID))
	fmt.Printf("  Status:   %s\n", renderStatus(call.ProcessingStatus))
	if call.ProcessingError != "" {
		fmt.Printf("  Error:    %s\n", errorStyle.Render(call.ProcessingError))
	}
	if call.Outcome != "" {
		fmt.Printf("  Outcome:  %s\n", call.Outcome)
	}
	if call.Summary != "" {
		fmt.Printf("  Summary:  %s\n", call.Summary)
	}
	for key, score := range call.Scores {
		fmt.Printf("  %-26s %.1f\n", key+":", score)
	}

	objections, err := store.ListObjections(ctx, callID, clientID)
	if err != nil {
		return err
	}
	if len(objections) > 0 {
		fmt.Println(titleStyle.Render("Objections"))
		for _, o := range objections {
			overcome := warningStyle.Render("not overcome")
			if o.WasOvercome {
				overcome = successStyle.Render("overcome")
			}
			ts := ""
			if o.TimestampApproximate != nil {
				ts = " @ " + *o.TimestampApproximate
			}
			fmt.Printf("  [%s] %s (%s%s)\n", o.Type, o.Text, overcome, ts)
		}
	}

	entries, err := store.ListAuditEntries(ctx, clientID, "call", callID, 10)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		fmt.Println(titleStyle.Render("Recent activity"))
		for _, entry := range entries {
			fmt.Printf("  %s  %-10s %s\n",
				subtleStyle.Render(entry.CreatedAt.Format("2006-01-02 15:04:05")),
				entry.Action, entry.NewValue)
		}
	}
	return nil
}

func renderStatus(status model.ProcessingStatus) string {
	switch status {
	case model.StatusComplete:
		return successStyle.Render(string(status))
	case model.StatusError:
		return errorStyle.Render(string(status))
	case model.StatusProcessing:
		return warningStyle.Render(string(status))
	default:
		return string(status)
	}
}
