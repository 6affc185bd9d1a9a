// Package parser converts raw model responses into schema-conformant analysis
// records. Parsing never panics and never returns partial data: every failure
// mode is a value, and every field in a successful result has been validated
// against the taxonomy or replaced with its default.
package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/outwell/callscope/internal/model"
	"github.com/outwell/callscope/internal/taxonomy"
)

const (
	errCouldNotExtract = "Could not extract valid JSON from AI response"
	errNotObject       = "AI response is not a JSON object"

	defaultSummary = "No summary provided"
)

// Result is the outcome of parsing one raw response.
type Result struct {
	Data        *model.NormalizedAnalysis
	Err         string
	RawResponse string
	Warnings    []string
	Success     bool
}

// Parser normalizes raw model output against a taxonomy.
type Parser struct {
	tax *taxonomy.Config
}

// New creates a parser bound to the given taxonomy.
func New(tax *taxonomy.Config) *Parser {
	return &Parser{tax: tax}
}

// Parse extracts and normalizes a model response. A failed extraction or JSON
// parse fails the whole result; once a JSON object is in hand, every field is
// normalized independently and a bad field never aborts the others.
func (p *Parser) Parse(raw string) Result {
	extracted, ok := extractJSON(raw)
	if !ok {
		return Result{Err: errCouldNotExtract, RawResponse: raw}
	}

	var parsed any
	if err := json.Unmarshal([]byte(extracted), &parsed); err != nil {
		return Result{Err: "JSON parse error: " + err.Error(), RawResponse: raw}
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return Result{Err: errNotObject, RawResponse: raw}
	}

	var warnings []string

	outcome, warn := p.normalizeOutcome(obj["call_outcome"])
	if warn != "" {
		warnings = append(warnings, warn)
	}

	objections, objWarnings := p.normalizeObjections(obj["objections"])
	warnings = append(warnings, objWarnings...)

	data := &model.NormalizedAnalysis{
		CallOutcome:            outcome,
		Scores:                 p.normalizeScores(obj["scores"]),
		Summary:                stringOrDefault(obj["summary"], defaultSummary),
		Objections:             objections,
		CoachingNotes:          stringOrNil(obj["coaching_notes"]),
		DisqualificationReason: stringOrNil(obj["disqualification_reason"]),
	}

	return Result{Success: true, Data: data, Warnings: warnings}
}

// extractJSON pulls the JSON payload out of raw model text: takes the body of
// a complete markdown code fence if present, otherwise slices from the first
// '{' to the last '}' to drop preamble and postamble prose. An opening fence
// with no closing fence is treated as prose, not as a fence.
func extractJSON(raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", false
	}

	if strings.HasPrefix(text, "```") {
		inner := strings.TrimPrefix(text, "```json")
		inner = strings.TrimPrefix(inner, "```")
		if end := strings.Index(inner, "```"); end >= 0 {
			return strings.TrimSpace(inner[:end]), true
		}
	}

	if strings.HasPrefix(text, "{") {
		return text, true
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// normalizeOutcome maps arbitrary model output onto a configured outcome
// label, falling back to the default outcome when nothing matches.
func (p *Parser) normalizeOutcome(v any) (string, string) {
	fallback := p.tax.DefaultOutcome().Label

	s, ok := v.(string)
	if !ok {
		return fallback, fmt.Sprintf("call_outcome missing or not a string, defaulting to %q", fallback)
	}

	if entry, matched := p.tax.MatchOutcome(s); matched {
		return entry.Label, ""
	}
	return fallback, fmt.Sprintf("unrecognized call_outcome %q, defaulting to %q", s, fallback)
}

// normalizeScores returns a map holding every configured score key. Values
// are clamped to the rubric scale and rounded to one decimal; anything the
// model omitted or garbled becomes nil. Keys outside the taxonomy are
// dropped entirely.
func (p *Parser) normalizeScores(v any) map[string]*float64 {
	rawScores, _ := v.(map[string]any)
	scale := p.tax.Rubric.Scale

	out := make(map[string]*float64, len(p.tax.Rubric.ScoreTypes))
	for _, key := range p.tax.ScoreKeys() {
		out[key] = nil

		raw, exists := rawScores[key]
		if !exists || raw == nil {
			continue
		}

		n, ok := coerceNumber(raw)
		if !ok {
			continue
		}

		n = math.Min(math.Max(n, scale.Min), scale.Max)
		n = math.Round(n*10) / 10
		out[key] = &n
	}
	return out
}

func (p *Parser) normalizeObjections(v any) ([]model.NormalizedObjection, []string) {
	arr, ok := v.([]any)
	if !ok {
		return []model.NormalizedObjection{}, nil
	}

	var warnings []string
	out := make([]model.NormalizedObjection, 0, len(arr))
	for _, item := range arr {
		obj, isMap := item.(map[string]any)
		if !isMap {
			continue
		}

		objType, warn := p.normalizeObjectionType(obj["objection_type"])
		if warn != "" {
			warnings = append(warnings, warn)
		}

		out = append(out, model.NormalizedObjection{
			Type:                 objType,
			Text:                 stringOrDefault(obj["objection_text"], ""),
			CloserResponse:       stringOrDefault(obj["closer_response"], ""),
			WasOvercome:          truthy(obj["was_overcome"]),
			TimestampApproximate: stringOrNil(obj["timestamp_approximate"]),
		})
	}
	return out, warnings
}

func (p *Parser) normalizeObjectionType(v any) (string, string) {
	fallback := p.tax.FallbackObjection().Key

	s, ok := v.(string)
	if !ok {
		return fallback, fmt.Sprintf("objection_type missing or not a string, defaulting to %q", fallback)
	}

	if entry, matched := p.tax.MatchObjectionType(s); matched {
		return entry.Key, ""
	}
	return fallback, fmt.Sprintf("unrecognized objection_type %q, defaulting to %q", s, fallback)
}

// coerceNumber accepts the value shapes a model actually produces for scores:
// JSON numbers, numeric strings, and the occasional boolean.
func coerceNumber(v any) (float64, bool) {
	var n float64
	switch val := v.(type) {
	case float64:
		n = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	case bool:
		if val {
			n = 1
		}
	default:
		return 0, false
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func stringOrDefault(v any, def string) string {
	s, ok := v.(string)
	if !ok {
		return def
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func stringOrNil(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}
