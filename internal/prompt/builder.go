// Package prompt assembles the instruction text sent to the model. Output is
// deterministic: the same taxonomy and tenant config always produce the same
// prompt, and the master section enumerates the taxonomy exhaustively so the
// instructed value set and the parser's valid value set stay in lockstep.
package prompt

import (
	"fmt"
	"strings"

	"github.com/outwell/callscope/internal/model"
	"github.com/outwell/callscope/internal/taxonomy"
)

// Prompt is the pair of messages sent to the model for one call.
type Prompt struct {
	System string
	User   string
}

// Builder generates prompts from the taxonomy plus per-tenant overrides.
type Builder struct {
	tax *taxonomy.Config
}

// NewBuilder creates a prompt builder bound to the given taxonomy.
func NewBuilder(tax *taxonomy.Config) *Builder {
	return &Builder{tax: tax}
}

// Build produces the system prompt and user message for a call. The tenant
// config is read, never modified; nil is treated as a tenant with no
// customizations.
func (b *Builder) Build(tenant *model.TenantConfig, call *model.Call, transcript string) Prompt {
	return Prompt{
		System: b.buildSystemPrompt(tenant),
		User:   buildUserMessage(call, transcript),
	}
}

func (b *Builder) buildSystemPrompt(tenant *model.TenantConfig) string {
	var sb strings.Builder

	sb.WriteString("You are an expert sales call analyst. Analyze the transcript and respond with a single JSON object, no other text.\n\n")

	sb.WriteString("## Call Outcomes\n")
	sb.WriteString("Classify the call as exactly one of:\n")
	for _, o := range b.tax.Outcomes {
		fmt.Fprintf(&sb, "- %s: %s\n", o.Label, o.Description)
	}

	sb.WriteString("\n## Objection Types\n")
	sb.WriteString("Classify every objection raised as one of:\n")
	for _, t := range b.tax.ObjectionTypes {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", t.Key, t.Label, t.Description)
	}

	scale := b.tax.Rubric.Scale
	sb.WriteString("\n## Scoring\n")
	fmt.Fprintf(&sb, "Score each dimension from %.1f to %.1f:\n", scale.Min, scale.Max)
	for _, lvl := range b.tax.Rubric.Levels {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", lvl.Range, lvl.Label, lvl.Description)
	}
	sb.WriteString("\nDimensions:\n")
	for _, st := range b.tax.Rubric.ScoreTypes {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", st.Key, st.Label, st.Description)
	}

	sb.WriteString("\n## Output Format\n")
	sb.WriteString("Respond with exactly this JSON structure:\n")
	sb.WriteString(b.outputExample())

	if tenantSection := buildTenantSection(tenant); tenantSection != "" {
		sb.WriteString("\n")
		sb.WriteString(tenantSection)
	}

	return sb.String()
}

// outputExample renders a literal JSON skeleton listing every configured
// score key.
func (b *Builder) outputExample() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	sb.WriteString("  \"call_outcome\": \"<one of the call outcomes above>\",\n")
	sb.WriteString("  \"scores\": {\n")
	keys := b.tax.ScoreKeys()
	for i, key := range keys {
		fmt.Fprintf(&sb, "    %q: <number or null>", key)
		if i < len(keys)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  },\n")
	sb.WriteString("  \"summary\": \"<2-3 sentence summary of the call>\",\n")
	sb.WriteString("  \"objections\": [\n")
	sb.WriteString("    {\n")
	sb.WriteString("      \"objection_type\": \"<one of the objection type keys above>\",\n")
	sb.WriteString("      \"objection_text\": \"<what the prospect said>\",\n")
	sb.WriteString("      \"closer_response\": \"<how the closer responded>\",\n")
	sb.WriteString("      \"was_overcome\": <true or false>,\n")
	sb.WriteString("      \"timestamp_approximate\": \"<HH:MM:SS or MM:SS, or null>\"\n")
	sb.WriteString("    }\n")
	sb.WriteString("  ],\n")
	sb.WriteString("  \"coaching_notes\": \"<specific coaching feedback, or null>\",\n")
	sb.WriteString("  \"disqualification_reason\": \"<reason if disqualified, or null>\"\n")
	sb.WriteString("}\n")
	return sb.String()
}

// buildTenantSection assembles the client-specific prompt blocks. Only
// non-empty fields are included; an empty result means the tenant section is
// omitted entirely.
func buildTenantSection(tenant *model.TenantConfig) string {
	if tenant == nil {
		return ""
	}

	blocks := []struct {
		heading string
		body    string
	}{
		{"## Client Scoring Instructions", tenant.CustomScoringInstructions},
		{"## Client Script", tenant.ScriptTemplate},
		{"## Disqualification Criteria", tenant.DisqualificationCriteria},
		{"## Offer Details", tenant.OfferDetails},
	}

	var sb strings.Builder
	for _, block := range blocks {
		body := strings.TrimSpace(block.body)
		if body == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s\n%s\n\n", block.heading, body)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func buildUserMessage(call *model.Call, transcript string) string {
	var sb strings.Builder

	if call != nil {
		if call.CallType != "" {
			fmt.Fprintf(&sb, "Call type: %s\n", call.CallType)
		}
		if call.CloserName != "" {
			fmt.Fprintf(&sb, "Closer: %s\n", call.CloserName)
		}
		if call.ProspectName != "" {
			fmt.Fprintf(&sb, "Prospect: %s\n", call.ProspectName)
		}
		if call.DurationSeconds > 0 {
			fmt.Fprintf(&sb, "Duration: %dm %ds\n", call.DurationSeconds/60, call.DurationSeconds%60)
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
	}

	sb.WriteString("## Transcript\n")
	sb.WriteString(transcript)
	return sb.String()
}
