package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outwell/callscope/internal/llm"
	"github.com/outwell/callscope/internal/model"
	"github.com/outwell/callscope/internal/parser"
	"github.com/outwell/callscope/internal/prompt"
	"github.com/outwell/callscope/internal/taxonomy"
)

func newTestEngine(t *testing.T, store *mockStore, client llm.Client) *Engine {
	t.Helper()
	tax := taxonomy.Default()
	require.NoError(t, tax.Validate())

	return New(Deps{
		Calls:       store,
		Tenants:     store,
		Transitions: store,
		Objections:  store,
		Costs:       store,
		Audit:       store,
		Client:      client,
		Parser:      parser.New(tax),
		Prompts:     prompt.NewBuilder(tax),
		IDs:         &seqIDs{},
	}, Config{Model: "test-model"})
}

func TestProcessCallSuccess(t *testing.T) {
	store := newMockStore()
	client := llm.NewMockClient()
	client.SetResponse(llm.Response{
		Text: `{
			"call_outcome": "closed_won",
			"scores": {"discovery_score": 8, "overall_score": 9.5},
			"summary": "Prospect signed on the call.",
			"objections": [
				{"objection_type": "price", "objection_text": "Too expensive",
				 "closer_response": "Reframed ROI", "was_overcome": true,
				 "timestamp_approximate": "12:30"}
			],
			"coaching_notes": "Strong close."
		}`,
		Model:        "claude-test",
		InputTokens:  1000,
		OutputTokens: 200,
	})
	eng := newTestEngine(t, store, client)

	result := eng.ProcessCall(context.Background(), "call-1", "client-1", "")

	require.True(t, result.Success, "result error: %s", result.Error)
	assert.Equal(t, "Closed - Won", result.Outcome)
	assert.Equal(t, map[string]float64{"discovery_score": 8, "overall_score": 9.5}, result.Scores)
	assert.Equal(t, "Prospect signed on the call.", result.Summary)
	assert.Equal(t, "Strong close.", result.CoachingNotes)
	assert.Equal(t, 1, result.ObjectionCount)
	assert.InDelta(t, 0.006, result.CostUSD, 1e-9)

	// Status lifecycle: processing then complete.
	require.Len(t, store.statuses, 2)
	assert.Equal(t, "processing", string(store.statuses[0].status))
	assert.Equal(t, "complete", string(store.statuses[1].status))

	// Outcome applied through the stage transition, not a plain update.
	assert.Equal(t, []string{"Closed - Won"}, store.transitions)
	assert.Empty(t, store.savedResults)

	// Objection persisted with generated id and derived timestamps.
	require.Len(t, store.objections, 1)
	obj := store.objections[0]
	assert.Equal(t, "id-1", obj.ID)
	assert.Equal(t, "call-1", obj.CallID)
	assert.Equal(t, "client-1", obj.ClientID)
	assert.Equal(t, "Alex", obj.CloserName)
	assert.Equal(t, "price", obj.Type)
	assert.True(t, obj.WasOvercome)
	require.NotNil(t, obj.TimestampSeconds)
	assert.Equal(t, 750, *obj.TimestampSeconds)
	require.NotNil(t, obj.TimestampMinutes)
	assert.Equal(t, 12.5, *obj.TimestampMinutes)

	// Usage recorded against the model the provider reported.
	require.Len(t, store.costs, 1)
	assert.Equal(t, "claude-test", store.costs[0].Model)
	assert.Equal(t, 1000, store.costs[0].InputTokens)
	assert.Equal(t, 200, store.costs[0].OutputTokens)

	require.Len(t, store.audits, 1)
	audit := store.audits[0]
	assert.Equal(t, "processed", audit.Action)
	assert.Equal(t, "call", audit.EntityType)
	assert.Equal(t, "call-1", audit.EntityID)
	assert.Equal(t, "Closed - Won", audit.NewValue)
	assert.Equal(t, "ai_processing", audit.TriggerSource)
	assert.Equal(t, 1, audit.Metadata["objection_count"])
}

func TestProcessCallUsesStoredTranscriptWhenNoneGiven(t *testing.T) {
	store := newMockStore()
	client := llm.NewMockClient()
	eng := newTestEngine(t, store, client)

	result := eng.ProcessCall(context.Background(), "call-1", "client-1", "")
	require.True(t, result.Success)

	requests := client.Requests()
	require.Len(t, requests, 1)
	assert.Contains(t, requests[0].UserMessage, "stored transcript")
}

func TestProcessCallExplicitTranscriptWins(t *testing.T) {
	store := newMockStore()
	client := llm.NewMockClient()
	eng := newTestEngine(t, store, client)

	result := eng.ProcessCall(context.Background(), "call-1", "client-1", "override transcript")
	require.True(t, result.Success)

	requests := client.Requests()
	require.Len(t, requests, 1)
	assert.Contains(t, requests[0].UserMessage, "override transcript")
	assert.NotContains(t, requests[0].UserMessage, "stored transcript")
}

func TestProcessCallMissingCallFailsFast(t *testing.T) {
	store := newMockStore()
	store.getCallErr = errors.New("call missing-call not found")
	eng := newTestEngine(t, store, llm.NewMockClient())

	result := eng.ProcessCall(context.Background(), "missing-call", "client-1", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "failed to load call")

	// Fail-fast: nothing was touched.
	assert.Empty(t, store.statuses)
	assert.Empty(t, store.audits)
	assert.Empty(t, store.objections)
	assert.Empty(t, store.costs)
}

func TestProcessCallMissingTenantFailsFast(t *testing.T) {
	store := newMockStore()
	store.getTenantErr = errors.New("tenant client-1 not found")
	eng := newTestEngine(t, store, llm.NewMockClient())

	result := eng.ProcessCall(context.Background(), "call-1", "client-1", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "failed to load tenant config")
	assert.Empty(t, store.statuses)
	assert.Empty(t, store.audits)
}

func TestProcessCallModelFailureMarksCallErrored(t *testing.T) {
	store := newMockStore()
	client := llm.NewMockClient()
	client.SetError(errors.New("api unavailable"))
	eng := newTestEngine(t, store, client)

	result := eng.ProcessCall(context.Background(), "call-1", "client-1", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "api unavailable")

	require.Len(t, store.statuses, 2)
	assert.Equal(t, "processing", string(store.statuses[0].status))
	assert.Equal(t, "error", string(store.statuses[1].status))
	assert.Contains(t, store.statuses[1].errMsg, "api unavailable")

	require.Len(t, store.audits, 1)
	assert.Equal(t, "error", store.audits[0].Action)
	assert.Contains(t, store.audits[0].NewValue, "api unavailable")

	assert.Empty(t, store.objections)
	assert.Empty(t, store.costs)
}

func TestProcessCallUnparseableResponseMarksCallErrored(t *testing.T) {
	store := newMockStore()
	client := llm.NewMockClient()
	client.SetResponse(llm.Response{Text: "Sorry, I can't help."})
	eng := newTestEngine(t, store, client)

	result := eng.ProcessCall(context.Background(), "call-1", "client-1", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Could not extract valid JSON")

	require.Len(t, store.statuses, 2)
	assert.Equal(t, "error", string(store.statuses[1].status))
}

func TestProcessCallTransitionRejectedFallsBackToPlainUpdate(t *testing.T) {
	store := newMockStore()
	store.rejectTransition = true
	eng := newTestEngine(t, store, llm.NewMockClient())

	result := eng.ProcessCall(context.Background(), "call-1", "client-1", "")

	require.True(t, result.Success, "rejection must not fail the run: %s", result.Error)
	assert.Empty(t, store.transitions)
	require.Len(t, store.savedResults, 1)
	assert.Equal(t, "Follow Up", store.savedResults[0].Outcome)

	// The call still completes normally.
	require.Len(t, store.statuses, 2)
	assert.Equal(t, "complete", string(store.statuses[1].status))
}

func TestProcessCallTransitionErrorFails(t *testing.T) {
	store := newMockStore()
	store.transitionErr = errors.New("db locked")
	eng := newTestEngine(t, store, llm.NewMockClient())

	result := eng.ProcessCall(context.Background(), "call-1", "client-1", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "failed to transition call")
	assert.Equal(t, "error", string(store.statuses[len(store.statuses)-1].status))
}

func TestProcessCallSecondaryFailuresDoNotMaskOriginalError(t *testing.T) {
	store := newMockStore()
	client := llm.NewMockClient()
	client.SetError(errors.New("api unavailable"))
	eng := newTestEngine(t, store, client)

	// Both the error-status write and the audit write fail.
	store.statusErrs = map[model.ProcessingStatus]error{
		model.StatusError: errors.New("status write failed"),
	}
	store.auditErr = errors.New("audit write failed")

	result := eng.ProcessCall(context.Background(), "call-1", "client-1", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "api unavailable")
	assert.NotContains(t, result.Error, "status write failed")
	assert.NotContains(t, result.Error, "audit write failed")
}

func TestProcessCallReprocessReplacesObjections(t *testing.T) {
	store := newMockStore()
	client := llm.NewMockClient()
	eng := newTestEngine(t, store, client)

	first := eng.ProcessCall(context.Background(), "call-1", "client-1", "")
	require.True(t, first.Success)
	require.Len(t, store.objections, 1)
	firstID := store.objections[0].ID

	client.SetResponse(llm.Response{
		Text: `{
			"call_outcome": "Lost",
			"objections": [
				{"objection_type": "price"},
				{"objection_type": "timing"}
			]
		}`,
	})

	second := eng.ProcessCall(context.Background(), "call-1", "client-1", "")
	require.True(t, second.Success)
	assert.Equal(t, 2, second.ObjectionCount)

	require.Len(t, store.objections, 2)
	for _, obj := range store.objections {
		assert.NotEqual(t, firstID, obj.ID, "stale objection row survived reprocessing")
	}
}

func TestProcessCallCostErrorFails(t *testing.T) {
	store := newMockStore()
	store.costErr = errors.New("insert failed")
	eng := newTestEngine(t, store, llm.NewMockClient())

	result := eng.ProcessCall(context.Background(), "call-1", "client-1", "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "failed to record cost")
}

func TestNewAppliesConfigDefaults(t *testing.T) {
	store := newMockStore()
	eng := newTestEngine(t, store, llm.NewMockClient())

	assert.Equal(t, "ai_processing", eng.cfg.TriggerSource)
	assert.Equal(t, 2048, eng.cfg.MaxTokens)
}
