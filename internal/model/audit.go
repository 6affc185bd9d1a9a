package model

import "time"

// Audit actions recorded by the pipeline.
const (
	AuditActionProcessed = "processed"
	AuditActionError     = "error"
)

// AuditEntry is one row in the tenant-visible audit log. Writes are
// best-effort; a failed audit write never aborts the operation that
// produced it.
type AuditEntry struct {
	CreatedAt     time.Time
	Metadata      map[string]any
	ID            string
	ClientID      string
	EntityType    string
	EntityID      string
	Action        string
	FieldChanged  string
	OldValue      string
	NewValue      string
	TriggerSource string
	TriggerDetail string
}
