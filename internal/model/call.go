// Package model defines the core domain models used throughout the application.
package model

import "time"

// ProcessingStatus tracks where a call sits in the analysis pipeline.
type ProcessingStatus string

// Processing status constants.
const (
	StatusQueued     ProcessingStatus = "queued"
	StatusProcessing ProcessingStatus = "processing"
	StatusComplete   ProcessingStatus = "complete"
	StatusError      ProcessingStatus = "error"
)

// Call represents a recorded sales call belonging to a tenant.
type Call struct {
	CreatedAt              time.Time
	UpdatedAt              time.Time
	ID                     string
	ClientID               string
	CloserName             string
	ProspectName           string
	CallType               string // e.g. "discovery", "closing"
	Transcript             string
	Stage                  string // pipeline stage on the dashboard; set from the call outcome
	Outcome                string
	Summary                string
	CoachingNotes          string
	DisqualificationReason string
	ProcessingStatus       ProcessingStatus
	ProcessingError        string
	Scores                 map[string]float64 // only non-null normalized scores
	DurationSeconds        int
}

// CallResults are the analysis fields written back onto a call record.
type CallResults struct {
	Outcome                string
	Summary                string
	CoachingNotes          string
	DisqualificationReason string
	Scores                 map[string]float64
}
