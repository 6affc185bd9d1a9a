// Package engine orchestrates the analysis of a single call: fetch, prompt
// build, model invocation, parse, persist, audit. Failures are values; the
// public ProcessCall never panics and never lets an error escape unhandled.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/outwell/callscope/internal/llm"
	"github.com/outwell/callscope/internal/model"
	"github.com/outwell/callscope/internal/parser"
	"github.com/outwell/callscope/internal/prompt"
)

// Config holds processing configuration.
type Config struct {
	Model         string
	TriggerSource string
	MaxTokens     int
}

// DefaultConfig returns the default processing configuration.
func DefaultConfig() Config {
	return Config{
		TriggerSource: "ai_processing",
		MaxTokens:     2048,
	}
}

// Result is the outcome of one processing attempt.
type Result struct {
	Scores           map[string]float64
	Outcome          string
	Summary          string
	CoachingNotes    string
	Error            string
	ObjectionCount   int
	CostUSD          float64
	ProcessingTimeMs int64
	Success          bool
}

// Engine drives one call through the analysis pipeline. It is stateless;
// construct one per process and share it.
type Engine struct {
	calls       CallStore
	tenants     TenantStore
	transitions StageTransitioner
	objections  ObjectionStore
	costs       CostLedger
	audit       AuditLog
	client      llm.Client
	parser      *parser.Parser
	prompts     *prompt.Builder
	ids         IDGenerator
	cfg         Config
}

// Deps bundles the collaborators an Engine needs.
type Deps struct {
	Calls       CallStore
	Tenants     TenantStore
	Transitions StageTransitioner
	Objections  ObjectionStore
	Costs       CostLedger
	Audit       AuditLog
	Client      llm.Client
	Parser      *parser.Parser
	Prompts     *prompt.Builder
	IDs         IDGenerator
}

// New creates a processing engine.
func New(deps Deps, cfg Config) *Engine {
	if cfg.TriggerSource == "" {
		cfg.TriggerSource = DefaultConfig().TriggerSource
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Engine{
		calls:       deps.Calls,
		tenants:     deps.Tenants,
		transitions: deps.Transitions,
		objections:  deps.Objections,
		costs:       deps.Costs,
		audit:       deps.Audit,
		client:      deps.Client,
		parser:      deps.Parser,
		prompts:     deps.Prompts,
		ids:         deps.IDs,
		cfg:         cfg,
	}
}

// ProcessCall runs the full pipeline for one call. Missing call or tenant
// fails fast with no state mutation; any later failure marks the call errored
// (best-effort) and returns the failure shape. The call is left out of
// "complete" on failure so it stays visible for manual reprocessing.
func (e *Engine) ProcessCall(ctx context.Context, callID, clientID, transcript string) Result {
	start := time.Now()

	call, err := e.calls.GetCall(ctx, callID, clientID)
	if err != nil {
		return failResult(fmt.Errorf("failed to load call: %w", err), start)
	}

	tenant, err := e.tenants.GetTenantConfig(ctx, clientID)
	if err != nil {
		return failResult(fmt.Errorf("failed to load tenant config: %w", err), start)
	}

	if transcript == "" {
		transcript = call.Transcript
	}

	result, err := e.execute(ctx, call, tenant, transcript, start)
	if err != nil {
		return e.failCall(ctx, callID, clientID, err, start)
	}
	return result
}

// execute runs steps 3-11 of the pipeline. Any returned error is handled once
// by the caller.
func (e *Engine) execute(ctx context.Context, call *model.Call, tenant *model.TenantConfig, transcript string, start time.Time) (Result, error) {
	callID, clientID := call.ID, call.ClientID

	if err := e.calls.SetProcessingStatus(ctx, callID, clientID, model.StatusProcessing, ""); err != nil {
		return Result{}, fmt.Errorf("failed to mark call processing: %w", err)
	}

	p := e.prompts.Build(tenant, call, transcript)

	resp, err := e.client.Complete(ctx, llm.Request{
		Model:        e.cfg.Model,
		MaxTokens:    e.cfg.MaxTokens,
		SystemPrompt: p.System,
		UserMessage:  p.User,
	})
	if err != nil {
		return Result{}, err
	}

	parsed := e.parser.Parse(resp.Text)
	for _, warn := range parsed.Warnings {
		slog.Warn("Response normalization fallback",
			"call_id", callID,
			"client_id", clientID,
			"detail", warn)
	}
	if !parsed.Success {
		return Result{}, errors.New(parsed.Err)
	}
	analysis := parsed.Data

	results := toCallResults(analysis)

	transitioned, err := e.transitions.TransitionStage(ctx, callID, clientID, analysis.CallOutcome, e.cfg.TriggerSource, results)
	if err != nil {
		return Result{}, fmt.Errorf("failed to transition call: %w", err)
	}
	if !transitioned {
		slog.Warn("Stage transition rejected, applying plain field update",
			"call_id", callID,
			"outcome", analysis.CallOutcome)
		if err := e.calls.SaveResults(ctx, callID, clientID, results); err != nil {
			return Result{}, fmt.Errorf("failed to save call results: %w", err)
		}
	}

	if err := e.calls.SetProcessingStatus(ctx, callID, clientID, model.StatusComplete, ""); err != nil {
		return Result{}, fmt.Errorf("failed to mark call complete: %w", err)
	}

	records := e.buildObjectionRecords(call, analysis.Objections)
	if err := e.objections.ReplaceObjections(ctx, callID, clientID, records); err != nil {
		return Result{}, fmt.Errorf("failed to replace objections: %w", err)
	}

	elapsed := time.Since(start).Milliseconds()

	modelName := resp.Model
	if modelName == "" {
		modelName = e.cfg.Model
	}
	cost, err := e.costs.RecordCost(ctx, model.CostUsage{
		ClientID:         clientID,
		CallID:           callID,
		Model:            modelName,
		InputTokens:      resp.InputTokens,
		OutputTokens:     resp.OutputTokens,
		ProcessingTimeMs: elapsed,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to record cost: %w", err)
	}

	elapsed = time.Since(start).Milliseconds()
	e.auditBestEffort(ctx, model.AuditEntry{
		ClientID:      clientID,
		EntityType:    "call",
		EntityID:      callID,
		Action:        model.AuditActionProcessed,
		NewValue:      analysis.CallOutcome,
		TriggerSource: e.cfg.TriggerSource,
		Metadata: map[string]any{
			"outcome":            analysis.CallOutcome,
			"scores":             results.Scores,
			"objection_count":    len(records),
			"cost_usd":           cost.TotalCostUSD,
			"processing_time_ms": elapsed,
		},
	})

	slog.Info("Call processed",
		"call_id", callID,
		"client_id", clientID,
		"outcome", analysis.CallOutcome,
		"objections", len(records),
		"cost_usd", cost.TotalCostUSD,
		"elapsed_ms", elapsed)

	return Result{
		Success:          true,
		Outcome:          analysis.CallOutcome,
		Scores:           results.Scores,
		Summary:          analysis.Summary,
		CoachingNotes:    results.CoachingNotes,
		ObjectionCount:   len(records),
		CostUSD:          cost.TotalCostUSD,
		ProcessingTimeMs: elapsed,
	}, nil
}

// failCall marks the call errored and records an audit entry, both
// best-effort: a secondary failure is logged but never masks the original
// error in the returned result.
func (e *Engine) failCall(ctx context.Context, callID, clientID string, cause error, start time.Time) Result {
	slog.Error("Call processing failed",
		"call_id", callID,
		"client_id", clientID,
		"error", cause)

	if err := e.calls.SetProcessingStatus(ctx, callID, clientID, model.StatusError, cause.Error()); err != nil {
		slog.Warn("Failed to mark call errored",
			"call_id", callID,
			"error", err)
	}

	e.auditBestEffort(ctx, model.AuditEntry{
		ClientID:      clientID,
		EntityType:    "call",
		EntityID:      callID,
		Action:        model.AuditActionError,
		NewValue:      cause.Error(),
		TriggerSource: e.cfg.TriggerSource,
	})

	return failResult(cause, start)
}

func (e *Engine) auditBestEffort(ctx context.Context, entry model.AuditEntry) {
	if err := e.audit.LogAudit(ctx, entry); err != nil {
		slog.Warn("Failed to write audit entry",
			"entity_id", entry.EntityID,
			"action", entry.Action,
			"error", err)
	}
}

func (e *Engine) buildObjectionRecords(call *model.Call, objections []model.NormalizedObjection) []model.ObjectionRecord {
	records := make([]model.ObjectionRecord, 0, len(objections))
	for _, o := range objections {
		record := model.ObjectionRecord{
			ID:                   e.ids.NewID(),
			ClientID:             call.ClientID,
			CallID:               call.ID,
			CloserName:           call.CloserName,
			Type:                 o.Type,
			Text:                 o.Text,
			CloserResponse:       o.CloserResponse,
			WasOvercome:          o.WasOvercome,
			TimestampApproximate: o.TimestampApproximate,
		}
		record.DeriveTimestamps()
		records = append(records, record)
	}
	return records
}

// toCallResults flattens a normalized analysis into the fields written onto
// the call record. Null scores are dropped; null notes become empty strings.
func toCallResults(analysis *model.NormalizedAnalysis) model.CallResults {
	scores := make(map[string]float64)
	for key, val := range analysis.Scores {
		if val != nil {
			scores[key] = *val
		}
	}
	return model.CallResults{
		Outcome:                analysis.CallOutcome,
		Scores:                 scores,
		Summary:                analysis.Summary,
		CoachingNotes:          derefString(analysis.CoachingNotes),
		DisqualificationReason: derefString(analysis.DisqualificationReason),
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func failResult(err error, start time.Time) Result {
	return Result{
		Error:            err.Error(),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
}
