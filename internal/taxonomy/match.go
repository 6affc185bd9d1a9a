package taxonomy

import "strings"

// Matching recovers a taxonomy entry from arbitrary model output. Each matcher
// runs as an ordered pipeline of predicates over the configured entries; the
// first entry that satisfies a predicate wins, scanning entries in declaration
// order. Two labels can both substring-match a garbled input; declaration
// order resolves the tie.

// MatchOutcome resolves a raw outcome string against the configured outcomes.
// Priority: exact label, case-insensitive label, normalized key, fuzzy
// substring in either direction.
func (c *Config) MatchOutcome(raw string) (Entry, bool) {
	return matchFirst(c.Outcomes, strings.TrimSpace(raw),
		func(e Entry, s string) bool { return e.Label == s },
		func(e Entry, s string) bool { return strings.EqualFold(e.Label, s) },
		func(e Entry, s string) bool { return e.Key == NormalizeKey(s) },
		fuzzyLabel,
	)
}

// MatchObjectionType resolves a raw objection type against the configured
// types. Priority: exact key, normalized key, case-insensitive label, fuzzy
// substring in either direction.
func (c *Config) MatchObjectionType(raw string) (Entry, bool) {
	return matchFirst(c.ObjectionTypes, strings.TrimSpace(raw),
		func(e Entry, s string) bool { return e.Key == s },
		func(e Entry, s string) bool { return e.Key == NormalizeKey(s) },
		func(e Entry, s string) bool { return strings.EqualFold(e.Label, s) },
		fuzzyLabel,
	)
}

// NormalizeKey lowercases a candidate and replaces spaces and hyphens with
// underscores, matching the snake_case convention of taxonomy keys.
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

type predicate func(Entry, string) bool

func matchFirst(entries []Entry, candidate string, predicates ...predicate) (Entry, bool) {
	if candidate == "" {
		return Entry{}, false
	}
	for _, pred := range predicates {
		for _, e := range entries {
			if pred(e, candidate) {
				return e, true
			}
		}
	}
	return Entry{}, false
}

func fuzzyLabel(e Entry, s string) bool {
	label := strings.ToLower(e.Label)
	cand := strings.ToLower(s)
	return strings.Contains(cand, label) || strings.Contains(label, cand)
}
