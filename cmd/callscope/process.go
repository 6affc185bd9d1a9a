package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <call-id>",
		Short: "Analyze one call transcript",
		Long: `Run the full analysis pipeline for a single call: build the prompt,
invoke the model, normalize the response, and persist results, objections,
cost, and an audit entry.

Examples:
  callscope process call-123 --client acme
  callscope process call-123 --client acme --transcript call.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runProcess,
	}

	cmd.Flags().StringP("client", "c", "", "tenant client id (required)")
	cmd.Flags().StringP("transcript", "t", "", "transcript file (defaults to the stored transcript)")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	callID := args[0]
	clientID, _ := cmd.Flags().GetString("client")
	transcriptPath, _ := cmd.Flags().GetString("transcript")

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

	transcript := ""
	if transcriptPath != "" {
		transcript, err = readTranscript(transcriptPath)
		if err != nil {
			return err
		}
	}

	result := eng.ProcessCall(ctx, callID, clientID, transcript)
	if !result.Success {
		fmt.Println(errorStyle.Render("✗ Processing failed: " + result.Error))
		return fmt.Errorf("call %s ended in error", callID)
	}

	fmt.Println(titleStyle.Render("Call analyzed"))
	fmt.Printf("  Outcome:    %s\n", successStyle.Render(result.Outcome))
	fmt.Printf("  Summary:    %s\n", result.Summary)
	if result.CoachingNotes != "" {
		fmt.Printf("  Coaching:   %s\n", result.CoachingNotes)
	}

	keys := make([]string, 0, len(result.Scores))
	for key := range result.Scores {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("  %-26s %.1f\n", key+":", result.Scores[key])
	}

	fmt.Printf("  Objections: %d\n", result.ObjectionCount)
	fmt.Println(subtleStyle.Render(fmt.Sprintf("  $%.4f · %s · model %s",
		result.CostUSD, formatDuration(result.ProcessingTimeMs), viper.GetString("llm.model"))))
	return nil
}
