// Package taxonomy defines the closed enumerations of call outcomes, objection
// types, and score dimensions. The same config drives both prompt generation
// and response validation so the two can never drift apart.
package taxonomy

import (
	"fmt"
)

// Entry is a single taxonomy member: a stable snake_case key, a human display
// label, and a description used in prompt text.
type Entry struct {
	Key         string
	Label       string
	Description string
}

// Scale bounds the numeric score range.
type Scale struct {
	Min float64
	Max float64
}

// Level describes one band of the scoring rubric.
type Level struct {
	Range       string
	Label       string
	Description string
}

// Rubric is the scoring configuration: scale bounds, quality bands, and the
// ordered list of score dimensions.
type Rubric struct {
	Scale      Scale
	Levels     []Level
	ScoreTypes []Entry
}

// Config is the full taxonomy, built once at process start and injected into
// the parser, prompt builder, and engine. Slices are ordered; matching always
// scans in declaration order.
type Config struct {
	Outcomes             []Entry
	ObjectionTypes       []Entry
	Rubric               Rubric
	DefaultOutcomeKey    string
	FallbackObjectionKey string
}

// Validate checks the config for duplicate keys and missing defaults.
func (c *Config) Validate() error {
	if err := checkUniqueKeys("outcome", c.Outcomes); err != nil {
		return err
	}
	if err := checkUniqueKeys("objection type", c.ObjectionTypes); err != nil {
		return err
	}
	if err := checkUniqueKeys("score type", c.Rubric.ScoreTypes); err != nil {
		return err
	}
	if _, ok := findByKey(c.Outcomes, c.DefaultOutcomeKey); !ok {
		return fmt.Errorf("default outcome %q is not a configured outcome", c.DefaultOutcomeKey)
	}
	if _, ok := findByKey(c.ObjectionTypes, c.FallbackObjectionKey); !ok {
		return fmt.Errorf("fallback objection type %q is not a configured objection type", c.FallbackObjectionKey)
	}
	if c.Rubric.Scale.Min >= c.Rubric.Scale.Max {
		return fmt.Errorf("invalid score scale [%v, %v]", c.Rubric.Scale.Min, c.Rubric.Scale.Max)
	}
	return nil
}

// DefaultOutcome returns the outcome used when a model response cannot be
// matched to any configured outcome.
func (c *Config) DefaultOutcome() Entry {
	entry, _ := findByKey(c.Outcomes, c.DefaultOutcomeKey)
	return entry
}

// FallbackObjection returns the catch-all objection type.
func (c *Config) FallbackObjection() Entry {
	entry, _ := findByKey(c.ObjectionTypes, c.FallbackObjectionKey)
	return entry
}

// ScoreKeys returns the configured score dimension keys in order.
func (c *Config) ScoreKeys() []string {
	keys := make([]string, len(c.Rubric.ScoreTypes))
	for i, st := range c.Rubric.ScoreTypes {
		keys[i] = st.Key
	}
	return keys
}

// OutcomeLabels returns the configured outcome labels in order.
func (c *Config) OutcomeLabels() []string {
	labels := make([]string, len(c.Outcomes))
	for i, o := range c.Outcomes {
		labels[i] = o.Label
	}
	return labels
}

func checkUniqueKeys(kind string, entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("%s with label %q has an empty key", kind, e.Label)
		}
		if _, dup := seen[e.Key]; dup {
			return fmt.Errorf("duplicate %s key %q", kind, e.Key)
		}
		seen[e.Key] = struct{}{}
	}
	return nil
}

func findByKey(entries []Entry, key string) (Entry, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}
