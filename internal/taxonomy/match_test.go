package taxonomy

import (
	"testing"
)

func TestMatchOutcome(t *testing.T) {
	tax := Default()

	tests := []struct {
		name      string
		input     string
		wantLabel string
		wantMatch bool
	}{
		{name: "exact label", input: "Closed - Won", wantLabel: "Closed - Won", wantMatch: true},
		{name: "case insensitive label", input: "closed - won", wantLabel: "Closed - Won", wantMatch: true},
		{name: "key form", input: "closed_won", wantLabel: "Closed - Won", wantMatch: true},
		{name: "key with spaces", input: "Closed Won", wantLabel: "Closed - Won", wantMatch: true},
		{name: "key with hyphens", input: "closed-won", wantLabel: "Closed - Won", wantMatch: true},
		{name: "fuzzy candidate contains label", input: "Outcome: Follow Up with prospect", wantLabel: "Follow Up", wantMatch: true},
		{name: "fuzzy label contains candidate", input: "Disqual", wantLabel: "Disqualified", wantMatch: true},
		{name: "whitespace trimmed", input: "  Lost  ", wantLabel: "Lost", wantMatch: true},
		{name: "garbage", input: "banana", wantMatch: false},
		{name: "empty", input: "", wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := tax.MatchOutcome(tt.input)
			if ok != tt.wantMatch {
				t.Fatalf("MatchOutcome(%q) matched=%v, want %v", tt.input, ok, tt.wantMatch)
			}
			if ok && entry.Label != tt.wantLabel {
				t.Errorf("MatchOutcome(%q) = %q, want %q", tt.input, entry.Label, tt.wantLabel)
			}
		})
	}
}

func TestMatchOutcomeFirstInOrderWins(t *testing.T) {
	// Two labels can both substring-match one garbled input; declaration
	// order resolves the tie.
	tax := &Config{
		DefaultOutcomeKey:    "alpha",
		FallbackObjectionKey: "other",
		Outcomes: []Entry{
			{Key: "alpha", Label: "Won Deal"},
			{Key: "beta", Label: "Deal"},
		},
		ObjectionTypes: []Entry{{Key: "other", Label: "Other"}},
	}

	entry, ok := tax.MatchOutcome("closed the Won Deal today")
	if !ok {
		t.Fatal("expected a fuzzy match")
	}
	if entry.Key != "alpha" {
		t.Errorf("got %q, want first-declared entry alpha", entry.Key)
	}
}

func TestMatchObjectionType(t *testing.T) {
	tax := Default()

	tests := []struct {
		name      string
		input     string
		wantKey   string
		wantMatch bool
	}{
		{name: "exact key", input: "think_about", wantKey: "think_about", wantMatch: true},
		{name: "label form", input: "Think About It", wantKey: "think_about", wantMatch: true},
		{name: "normalized key", input: "Think-About", wantKey: "think_about", wantMatch: true},
		{name: "case insensitive label", input: "PRICE", wantKey: "price", wantMatch: true},
		{name: "fuzzy", input: "some pricing concern about Price here", wantKey: "price", wantMatch: true},
		{name: "nonsense", input: "quantum flux", wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := tax.MatchObjectionType(tt.input)
			if ok != tt.wantMatch {
				t.Fatalf("MatchObjectionType(%q) matched=%v, want %v", tt.input, ok, tt.wantMatch)
			}
			if ok && entry.Key != tt.wantKey {
				t.Errorf("MatchObjectionType(%q) = %q, want %q", tt.input, entry.Key, tt.wantKey)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Closed Won", "closed_won"},
		{"closed-won", "closed_won"},
		{"  Think About It ", "think_about_it"},
		{"already_normal", "already_normal"},
	}

	for _, tt := range tests {
		if got := NormalizeKey(tt.input); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default taxonomy should validate: %v", err)
	}

	dup := Default()
	dup.Outcomes = append(dup.Outcomes, Entry{Key: "closed_won", Label: "Duplicate"})
	if err := dup.Validate(); err == nil {
		t.Error("expected error for duplicate outcome key")
	}

	badDefault := Default()
	badDefault.DefaultOutcomeKey = "nope"
	if err := badDefault.Validate(); err == nil {
		t.Error("expected error for unknown default outcome")
	}
}

func TestConfigAccessors(t *testing.T) {
	tax := Default()

	if got := tax.DefaultOutcome().Label; got != "Follow Up" {
		t.Errorf("DefaultOutcome() = %q, want Follow Up", got)
	}
	if got := tax.FallbackObjection().Key; got != "other" {
		t.Errorf("FallbackObjection() = %q, want other", got)
	}

	keys := tax.ScoreKeys()
	if len(keys) != len(tax.Rubric.ScoreTypes) {
		t.Fatalf("ScoreKeys() returned %d keys, want %d", len(keys), len(tax.Rubric.ScoreTypes))
	}
	if keys[0] != "discovery_score" {
		t.Errorf("ScoreKeys()[0] = %q, want discovery_score (declaration order)", keys[0])
	}
}
