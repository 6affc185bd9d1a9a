package taxonomy

// Default returns the taxonomy shipped with the application. Tenants share
// this configuration; editing it changes prompt text and validation behavior
// together.
func Default() *Config {
	return &Config{
		DefaultOutcomeKey:    "follow_up",
		FallbackObjectionKey: "other",
		Outcomes: []Entry{
			{Key: "closed_won", Label: "Closed - Won", Description: "Prospect committed and payment or signed agreement was collected on the call."},
			{Key: "follow_up", Label: "Follow Up", Description: "Prospect is interested but a further touchpoint is required before a decision."},
			{Key: "lost", Label: "Lost", Description: "Prospect declined the offer and no further steps are planned."},
			{Key: "no_show", Label: "No Show", Description: "Prospect did not attend; little or no substantive conversation took place."},
			{Key: "disqualified", Label: "Disqualified", Description: "Prospect does not meet the qualification criteria for the offer."},
		},
		ObjectionTypes: []Entry{
			{Key: "price", Label: "Price", Description: "Concerns about cost, affordability, or perceived value."},
			{Key: "spouse", Label: "Spouse / Partner", Description: "Needs to consult a spouse, partner, or other decision maker."},
			{Key: "think_about", Label: "Think About It", Description: "Wants time to consider before committing."},
			{Key: "timing", Label: "Timing", Description: "Believes now is not the right moment to start."},
			{Key: "trust", Label: "Trust / Skepticism", Description: "Doubts about the company, the program, or promised results."},
			{Key: "fit", Label: "Fit / Need", Description: "Unsure the offer solves their actual problem."},
			{Key: "other", Label: "Other", Description: "Any concern that does not fit another category."},
		},
		Rubric: Rubric{
			Scale: Scale{Min: 1.0, Max: 10.0},
			Levels: []Level{
				{Range: "1-3", Label: "Poor", Description: "Step skipped or badly mishandled."},
				{Range: "4-5", Label: "Below Average", Description: "Attempted but with significant gaps."},
				{Range: "6-7", Label: "Good", Description: "Solid execution with minor misses."},
				{Range: "8-9", Label: "Excellent", Description: "Strong, nearly flawless execution."},
				{Range: "10", Label: "Elite", Description: "Textbook execution worth studying."},
			},
			ScoreTypes: []Entry{
				{Key: "discovery_score", Label: "Discovery", Description: "How thoroughly the closer uncovered the prospect's situation, pain, and goals."},
				{Key: "rapport_score", Label: "Rapport", Description: "Quality of connection and trust built with the prospect."},
				{Key: "objection_handling_score", Label: "Objection Handling", Description: "How effectively objections were isolated and resolved."},
				{Key: "closing_score", Label: "Closing", Description: "Strength of the ask and handling of the commitment moment."},
				{Key: "overall_score", Label: "Overall", Description: "Overall call quality across all dimensions."},
			},
		},
	}
}
