// Package holiday provides the holiday calendar membership predicate consumed
// by the deadline engine.  The engine performs no holiday computation itself:
// it only asks "is date X a holiday in jurisdiction Y?" against a precomputed,
// immutable calendar loaded at start-up.
package holiday

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bginsber/docketcalc/pkg/errors"
)

// Provider answers holiday membership for one jurisdiction.  Implementations
// must be safe for concurrent reads; the engine may query them from many
// goroutines at once.
type Provider interface {
	IsHoliday(d time.Time) bool
}

// ─────────────────────────────────────────────────────────────────────────────
// Immutable date-set Provider
// ─────────────────────────────────────────────────────────────────────────────

// dateKey is the canonical map key for a civil date.
const dateKey = "2006-01-02"

// Calendar is a precomputed, immutable holiday date set for one jurisdiction.
type Calendar struct {
	jurisdiction string
	dates        map[string]struct{}
}

// NewCalendar builds a Calendar over the given dates.  Time-of-day components
// are ignored; only the civil date matters.
func NewCalendar(jurisdiction string, dates []time.Time) *Calendar {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d.Format(dateKey)] = struct{}{}
	}
	return &Calendar{jurisdiction: jurisdiction, dates: set}
}

// Jurisdiction returns the jurisdiction code this calendar covers.
func (c *Calendar) Jurisdiction() string { return c.jurisdiction }

// Len returns the number of holiday dates in the calendar.
func (c *Calendar) Len() int { return len(c.dates) }

// IsHoliday implements Provider.
func (c *Calendar) IsHoliday(d time.Time) bool {
	_, ok := c.dates[d.Format(dateKey)]
	return ok
}

// Dates returns the holiday dates in sorted order.  Used by the lint CLI.
func (c *Calendar) Dates() []string {
	out := make([]string, 0, len(c.dates))
	for k := range c.dates {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Calendar document loading
// ─────────────────────────────────────────────────────────────────────────────

// calendarDoc is the YAML shape of a holiday calendar document:
//
//	jurisdiction: TX
//	dates:
//	  - "2025-11-27"
//	  - "2025-11-28"
type calendarDoc struct {
	Jurisdiction string   `yaml:"jurisdiction"`
	Dates        []string `yaml:"dates"`
}

// LoadCalendar reads one calendar document.  Every date must parse as
// YYYY-MM-DD; anything else fails the whole document, since the engine must not
// start over a calendar it cannot fully trust.
func LoadCalendar(path string) (*Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCalendarInvalid, "holiday calendar unreadable").
			WithDetail("path=" + path)
	}

	doc := &calendarDoc{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCalendarInvalid, "holiday calendar is not a structured document").
			WithDetail("path=" + path)
	}
	if doc.Jurisdiction == "" {
		return nil, errors.New(errors.ErrCodeCalendarInvalid, "holiday calendar missing jurisdiction").
			WithDetail("path=" + path)
	}

	dates := make([]time.Time, 0, len(doc.Dates))
	for _, raw := range doc.Dates {
		d, err := time.ParseInLocation(dateKey, raw, time.UTC)
		if err != nil {
			return nil, errors.Newf(errors.ErrCodeCalendarInvalid,
				"holiday calendar date %q does not parse as YYYY-MM-DD", raw).
				WithDetail("path=" + path)
		}
		dates = append(dates, d)
	}

	return NewCalendar(doc.Jurisdiction, dates), nil
}

// LoadDir loads every calendar document in dir, keyed by jurisdiction code.
// Jurisdictions without a calendar document simply have no provider; the
// engine treats a missing provider as "no holidays configured".
func LoadDir(dir string) (map[string]Provider, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCalendarInvalid, "holiday calendar directory unreadable").
			WithDetail("path=" + dir)
	}

	providers := make(map[string]Provider)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
		default:
			continue
		}
		cal, err := LoadCalendar(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := providers[cal.Jurisdiction()]; dup {
			return nil, errors.Newf(errors.ErrCodeCalendarInvalid,
				"jurisdiction %s has more than one holiday calendar", cal.Jurisdiction())
		}
		providers[cal.Jurisdiction()] = cal
	}
	return providers, nil
}
