// Package rulepack defines the declarative procedural-rule document model and
// its loader/validator.  One rule pack exists per jurisdiction; a pack is an
// immutable value once loaded, and the engine is never constructed over a
// pack that failed any structural or schema check.
package rulepack

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ─────────────────────────────────────────────────────────────────────────────
// Document model
// ─────────────────────────────────────────────────────────────────────────────

// RulePack is the in-memory representation of one jurisdiction's procedural
// rule document.  All fields are populated verbatim from the source document;
// nothing is normalised beyond YAML decoding.
type RulePack struct {
	// State is the jurisdiction code this pack governs (e.g., "TX").
	State string `yaml:"state" json:"state"`

	// SchemaVersion identifies the pack document schema revision.
	SchemaVersion string `yaml:"schema_version" json:"schema_version"`

	// DateCreated and LastUpdated are authoring metadata, echoed into every
	// calculation result for audit purposes.
	DateCreated string `yaml:"date_created" json:"date_created"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`

	// Source is the citation for the body of rules this pack encodes.
	Source string `yaml:"source" json:"source"`

	// Note is optional free-form authoring commentary.
	Note string `yaml:"note,omitempty" json:"note,omitempty"`

	// Holidays is an informational list of holiday names.  It is never used
	// for date lookups; holiday membership testing is delegated entirely to
	// the jurisdiction's holiday calendar provider.
	Holidays []string `yaml:"holidays,omitempty" json:"holidays,omitempty"`

	// Events maps a triggering event name to its deadline specifications.
	Events map[string]EventSpec `yaml:"events" json:"events"`
}

// EventSpec describes one triggering legal occurrence and the deadline clocks
// it starts.
type EventSpec struct {
	Description string         `yaml:"description" json:"description"`
	Deadlines   []DeadlineSpec `yaml:"deadlines" json:"deadlines"`
}

// DeadlineSpec is one named clock within an event.
type DeadlineSpec struct {
	// Name keys this deadline within the event's output map.  Names must be
	// unique within an event; the validator rejects duplicates at load time.
	Name string `yaml:"name" json:"name"`

	// Cite is the citation for the rule that creates this deadline.
	Cite string `yaml:"cite" json:"cite"`

	// Offset carries the day-count and day-type adjustment rules.
	Offset OffsetSpec `yaml:"offset" json:"offset"`

	// TimeOfDay is the wall-clock due time, "H:MM" or "HH:MM", 24-hour.
	TimeOfDay string `yaml:"time_of_day" json:"time_of_day"`

	// Notes and LastReviewed are presentation metadata carried verbatim into
	// calculation results.
	Notes        string `yaml:"notes,omitempty" json:"notes,omitempty"`
	LastReviewed string `yaml:"last_reviewed,omitempty" json:"last_reviewed,omitempty"`
}

// OffsetSpec is the day-count adjustment applied to a base date.
type OffsetSpec struct {
	// Days is the raw calendar-day offset.  Negative values count backwards
	// (e.g., pretrial disclosures due N days before trial).
	Days int `yaml:"days" json:"days"`

	// SkipWeekends rolls the candidate forward past Saturday/Sunday after the
	// full offset has been applied.
	SkipWeekends bool `yaml:"skip_weekends" json:"skip_weekends"`

	// SkipHolidays rolls the candidate forward past jurisdiction holidays,
	// strictly after the weekend roll.  Pack documents may write it as a bool
	// or as an explicit list; a list is only ever treated as a truthiness
	// switch and is never inspected item-by-item.
	SkipHolidays TruthyFlag `yaml:"skip_holidays" json:"skip_holidays"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Bool-or-list YAML switch
// ─────────────────────────────────────────────────────────────────────────────

// TruthyFlag decodes either a YAML boolean or a YAML sequence.  A sequence is
// collapsed to its truthiness (non-empty → true) at decode time, matching the
// way the rule documents have historically expressed the holiday switch.
type TruthyFlag bool

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *TruthyFlag) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var b bool
		if err := value.Decode(&b); err != nil {
			return fmt.Errorf("skip_holidays: expected bool or list, got %q", value.Value)
		}
		*f = TruthyFlag(b)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return fmt.Errorf("skip_holidays: list form must contain strings")
		}
		*f = len(items) > 0
		return nil
	default:
		return fmt.Errorf("skip_holidays: expected bool or list")
	}
}

// Enabled reports the switch state.
func (f TruthyFlag) Enabled() bool { return bool(f) }

// ─────────────────────────────────────────────────────────────────────────────
// Loaded pack plus provenance
// ─────────────────────────────────────────────────────────────────────────────

// Record pairs a validated RulePack with the resolved location it was loaded
// from.  Records are constructed once at engine start-up and never mutated.
type Record struct {
	Pack       *RulePack
	SourcePath string
}
