package model

// NormalizedAnalysis is the schema-conformant result of parsing a raw model
// response. Every configured score key is present in Scores (nil = the model
// gave no usable value) and CallOutcome is always a configured outcome label.
type NormalizedAnalysis struct {
	CallOutcome            string                 `json:"call_outcome"`
	Scores                 map[string]*float64    `json:"scores"`
	Summary                string                 `json:"summary"`
	Objections             []NormalizedObjection  `json:"objections"`
	CoachingNotes          *string                `json:"coaching_notes"`
	DisqualificationReason *string                `json:"disqualification_reason"`
}

// NormalizedObjection is a single validated objection from the model response.
type NormalizedObjection struct {
	Type                 string  `json:"objection_type"`
	Text                 string  `json:"objection_text"`
	CloserResponse       string  `json:"closer_response"`
	WasOvercome          bool    `json:"was_overcome"`
	TimestampApproximate *string `json:"timestamp_approximate"`
}
