package model

import "time"

// TenantConfig carries a client's prompt customizations. All free-text fields
// are optional; empty fields are omitted from the generated prompt.
type TenantConfig struct {
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
	ClientID                  string
	Name                      string
	CustomScoringInstructions string
	ScriptTemplate            string
	DisqualificationCriteria  string
	OfferDetails              string
}
