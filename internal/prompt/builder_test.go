package prompt

import (
	"strings"
	"testing"

	"github.com/outwell/callscope/internal/model"
	"github.com/outwell/callscope/internal/taxonomy"
)

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder(taxonomy.Default())
	tenant := &model.TenantConfig{
		ClientID:                  "client-1",
		CustomScoringInstructions: "Weight discovery heavily.",
	}
	call := &model.Call{ID: "call-1", CloserName: "Alex", CallType: "discovery"}

	first := b.Build(tenant, call, "transcript body")
	second := b.Build(tenant, call, "transcript body")

	if first.System != second.System {
		t.Error("system prompt is not deterministic")
	}
	if first.User != second.User {
		t.Error("user message is not deterministic")
	}
}

func TestBuildSystemPromptEnumeratesTaxonomy(t *testing.T) {
	tax := taxonomy.Default()
	b := NewBuilder(tax)

	system := b.Build(nil, nil, "").System

	for _, o := range tax.Outcomes {
		if !strings.Contains(system, o.Label) {
			t.Errorf("system prompt missing outcome label %q", o.Label)
		}
		if !strings.Contains(system, o.Description) {
			t.Errorf("system prompt missing outcome description for %q", o.Key)
		}
	}
	for _, typ := range tax.ObjectionTypes {
		if !strings.Contains(system, typ.Key) {
			t.Errorf("system prompt missing objection key %q", typ.Key)
		}
	}
	for _, st := range tax.Rubric.ScoreTypes {
		if !strings.Contains(system, st.Key) {
			t.Errorf("system prompt missing score key %q", st.Key)
		}
	}
	for _, lvl := range tax.Rubric.Levels {
		if !strings.Contains(system, lvl.Range) {
			t.Errorf("system prompt missing rubric level %q", lvl.Range)
		}
	}

	// The output skeleton must list every score key inside the scores block.
	if !strings.Contains(system, `"call_outcome":`) {
		t.Error("system prompt missing output format skeleton")
	}
}

func TestBuildSystemPromptTaxonomyOrder(t *testing.T) {
	tax := taxonomy.Default()
	b := NewBuilder(tax)
	system := b.Build(nil, nil, "").System

	last := -1
	for _, o := range tax.Outcomes {
		idx := strings.Index(system, "- "+o.Label+": ")
		if idx < 0 {
			t.Fatalf("outcome %q not found in system prompt", o.Label)
		}
		if idx < last {
			t.Errorf("outcome %q appears out of declaration order", o.Label)
		}
		last = idx
	}
}

func TestBuildTenantSection(t *testing.T) {
	tests := []struct {
		name        string
		tenant      *model.TenantConfig
		wantInclude []string
		wantExclude []string
	}{
		{
			name:        "nil tenant omits section",
			tenant:      nil,
			wantExclude: []string{"## Client Scoring Instructions", "## Client Script", "## Disqualification Criteria", "## Offer Details"},
		},
		{
			name:        "empty tenant omits section",
			tenant:      &model.TenantConfig{ClientID: "c"},
			wantExclude: []string{"## Client Scoring Instructions", "## Client Script", "## Disqualification Criteria", "## Offer Details"},
		},
		{
			name: "whitespace-only fields omitted",
			tenant: &model.TenantConfig{
				ClientID:       "c",
				ScriptTemplate: "   \n\t",
			},
			wantExclude: []string{"## Client Script"},
		},
		{
			name: "only populated fields included",
			tenant: &model.TenantConfig{
				ClientID:                 "c",
				DisqualificationCriteria: "Budget under $1k.",
				OfferDetails:             "12-week program at $5k.",
			},
			wantInclude: []string{
				"## Disqualification Criteria\nBudget under $1k.",
				"## Offer Details\n12-week program at $5k.",
			},
			wantExclude: []string{"## Client Scoring Instructions", "## Client Script"},
		},
	}

	b := NewBuilder(taxonomy.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system := b.Build(tt.tenant, nil, "").System
			for _, want := range tt.wantInclude {
				if !strings.Contains(system, want) {
					t.Errorf("system prompt missing %q", want)
				}
			}
			for _, exclude := range tt.wantExclude {
				if strings.Contains(system, exclude) {
					t.Errorf("system prompt should not contain %q", exclude)
				}
			}
		})
	}
}

func TestBuildUserMessage(t *testing.T) {
	b := NewBuilder(taxonomy.Default())

	t.Run("full metadata", func(t *testing.T) {
		call := &model.Call{
			CallType:        "closing",
			CloserName:      "Jordan",
			ProspectName:    "Sam",
			DurationSeconds: 1935,
		}
		user := b.Build(nil, call, "hello world").User

		for _, want := range []string{
			"Call type: closing\n",
			"Closer: Jordan\n",
			"Prospect: Sam\n",
			"Duration: 32m 15s\n",
			"## Transcript\nhello world",
		} {
			if !strings.Contains(user, want) {
				t.Errorf("user message missing %q\ngot:\n%s", want, user)
			}
		}
	})

	t.Run("nil call", func(t *testing.T) {
		user := b.Build(nil, nil, "just text").User
		if user != "## Transcript\njust text" {
			t.Errorf("user message = %q", user)
		}
	})

	t.Run("empty metadata fields skipped", func(t *testing.T) {
		user := b.Build(nil, &model.Call{CloserName: "Alex"}, "body").User
		if strings.Contains(user, "Call type:") || strings.Contains(user, "Prospect:") || strings.Contains(user, "Duration:") {
			t.Errorf("empty metadata fields leaked into user message:\n%s", user)
		}
		if !strings.Contains(user, "Closer: Alex\n") {
			t.Errorf("closer line missing:\n%s", user)
		}
	})
}
