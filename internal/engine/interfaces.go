package engine

import (
	"context"

	"github.com/outwell/callscope/internal/model"
)

// CallStore provides access to call records.
type CallStore interface {
	GetCall(ctx context.Context, callID, clientID string) (*model.Call, error)
	SetProcessingStatus(ctx context.Context, callID, clientID string, status model.ProcessingStatus, processingError string) error
	SaveResults(ctx context.Context, callID, clientID string, results model.CallResults) error
}

// TenantStore provides access to tenant prompt configuration.
type TenantStore interface {
	GetTenantConfig(ctx context.Context, clientID string) (*model.TenantConfig, error)
}

// StageTransitioner moves a call through the dashboard pipeline. A false
// return with a nil error is a non-fatal rejection: the call is not in a
// transitionable stage and the caller falls back to a plain field update.
type StageTransitioner interface {
	TransitionStage(ctx context.Context, callID, clientID, newStage, triggerSource string, results model.CallResults) (bool, error)
}

// ObjectionStore persists objections. Replace semantics: old rows for the
// call are gone, new rows are present.
type ObjectionStore interface {
	ReplaceObjections(ctx context.Context, callID, clientID string, objections []model.ObjectionRecord) error
}

// CostLedger records the cost of one processing attempt.
type CostLedger interface {
	RecordCost(ctx context.Context, usage model.CostUsage) (*model.CostRecord, error)
}

// AuditLog records tenant-visible audit entries. Best-effort: callers log and
// swallow failures.
type AuditLog interface {
	LogAudit(ctx context.Context, entry model.AuditEntry) error
}

// IDGenerator produces unique identifiers for created entities.
type IDGenerator interface {
	NewID() string
}
