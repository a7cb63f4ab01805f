package rulepack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bginsber/docketcalc/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Schema validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate checks a decoded RulePack against the schema.  It returns an
// ErrCodePackInvalid error naming the first offending field, or nil.  The
// loader calls this before producing a Record, so downstream code can assume
// every invariant here holds for any pack it receives.
func (p *RulePack) Validate() error {
	if p.State == "" {
		return invalid("state is required")
	}
	if p.SchemaVersion == "" {
		return invalid("schema_version is required")
	}
	if p.DateCreated == "" {
		return invalid("date_created is required")
	}
	if p.LastUpdated == "" {
		return invalid("last_updated is required")
	}
	if p.Source == "" {
		return invalid("source citation is required")
	}
	if len(p.Events) == 0 {
		return invalid("events must contain at least one event")
	}

	for eventName, event := range p.Events {
		if eventName == "" {
			return invalid("event name must not be empty")
		}
		if event.Description == "" {
			return invalid(fmt.Sprintf("events.%s: description is required", eventName))
		}
		if len(event.Deadlines) == 0 {
			return invalid(fmt.Sprintf("events.%s: deadlines must contain at least one entry", eventName))
		}

		seen := make(map[string]struct{}, len(event.Deadlines))
		for i, d := range event.Deadlines {
			where := fmt.Sprintf("events.%s.deadlines[%d]", eventName, i)
			if d.Name == "" {
				return invalid(where + ": name is required")
			}
			// Duplicate names within one event would make a later deadline
			// silently overwrite an earlier one in the output map.
			if _, dup := seen[d.Name]; dup {
				return invalid(fmt.Sprintf("%s: duplicate deadline name %q", where, d.Name))
			}
			seen[d.Name] = struct{}{}

			if d.Cite == "" {
				return invalid(where + ": cite is required")
			}
			if _, _, err := ParseTimeOfDay(d.TimeOfDay); err != nil {
				return invalid(fmt.Sprintf("%s: time_of_day %q does not parse as H:MM", where, d.TimeOfDay))
			}
		}
	}
	return nil
}

func invalid(msg string) error {
	return errors.New(errors.ErrCodePackInvalid, msg)
}

// ─────────────────────────────────────────────────────────────────────────────
// Time-of-day parsing
// ─────────────────────────────────────────────────────────────────────────────

// ParseTimeOfDay parses a "H:MM" or "HH:MM" 24-hour string into an (hour,
// minute) pair.  Hours must be 0–23 and minutes 0–59; anything else fails.
// Both the pack validator and the calculation engine use this, so a value
// that loads will always also calculate.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time of day %q: expected H:MM", s)
	}
	if len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("time of day %q: expected H:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("time of day %q: hour is not a number", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("time of day %q: minute is not a number", s)
	}
	if hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("time of day %q: hour out of range", s)
	}
	if minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time of day %q: minute out of range", s)
	}
	return hour, minute, nil
}
