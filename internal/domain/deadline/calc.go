// Package deadline implements the jurisdiction-aware filing deadline
// calculator.  An Engine is an immutable value constructed once from loaded
// rule packs and holiday calendar providers; Calculate is a pure, repeatable
// query against that state: it performs no I/O and has no side effects, so
// it is safe to invoke concurrently from any number of callers.
package deadline

import (
	"sort"
	"time"

	"github.com/bginsber/docketcalc/internal/domain/holiday"
	"github.com/bginsber/docketcalc/internal/domain/rulepack"
	"github.com/bginsber/docketcalc/pkg/errors"
)

// isoNoZone renders a naive civil datetime: ISO-8601 with no zone designator.
const isoNoZone = "2006-01-02T15:04:05"

// ─────────────────────────────────────────────────────────────────────────────
// Service methods
// ─────────────────────────────────────────────────────────────────────────────

// ServiceMethod is the means by which a document was served.
type ServiceMethod string

const (
	ServicePersonal ServiceMethod = "personal"
	ServiceEService ServiceMethod = "eservice"
	ServiceMail     ServiceMethod = "mail"
)

// serviceBonus is the fixed per-method day bonus.  It is a constant of the
// algorithm, deliberately not part of the rule-pack schema; promote it to
// configuration only if a jurisdiction ever diverges from the statewide
// mailbox rule.
var serviceBonus = map[ServiceMethod]int{
	ServicePersonal: 0,
	ServiceEService: 0,
	ServiceMail:     3,
}

// ServiceMethods returns the recognized methods in sorted order.
func ServiceMethods() []ServiceMethod {
	out := make([]ServiceMethod, 0, len(serviceBonus))
	for m := range serviceBonus {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Request
// ─────────────────────────────────────────────────────────────────────────────

// Request carries the arguments of one calculation.
type Request struct {
	// Jurisdiction must match a pack the engine was constructed with.
	Jurisdiction string

	// Event is the triggering event name, looked up by exact string.
	Event string

	// BaseDate is the civil date the deadline clocks start from.  Any
	// time-of-day component is discarded.
	BaseDate time.Time

	// ServiceMethod selects the fixed day bonus.
	ServiceMethod ServiceMethod

	// Explain enables the per-deadline provenance trace.
	Explain bool
}

// ─────────────────────────────────────────────────────────────────────────────
// Engine
// ─────────────────────────────────────────────────────────────────────────────

// Engine holds the loaded rule packs and holiday providers.  It is
// constructed once and never mutated; hot reloads build a fresh Engine and
// swap the reference.
type Engine struct {
	packs     map[string]*rulepack.Record
	holidays  map[string]holiday.Provider
	jurisList []string
}

// NewEngine constructs an Engine over validated pack records and their
// holiday providers.  A jurisdiction with no provider is treated as having no
// holidays configured; its skip_holidays rules then never advance a date.
func NewEngine(packs map[string]*rulepack.Record, holidays map[string]holiday.Provider) *Engine {
	jl := make([]string, 0, len(packs))
	for j := range packs {
		jl = append(jl, j)
	}
	sort.Strings(jl)
	return &Engine{packs: packs, holidays: holidays, jurisList: jl}
}

// Jurisdictions returns the configured jurisdiction codes, sorted.
func (e *Engine) Jurisdictions() []string {
	out := make([]string, len(e.jurisList))
	copy(out, e.jurisList)
	return out
}

// Pack returns the loaded record for a jurisdiction, or an
// ErrCodeUnsupportedJurisdiction error.
func (e *Engine) Pack(jurisdiction string) (*rulepack.Record, error) {
	rec, ok := e.packs[jurisdiction]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedJurisdiction, "jurisdiction is not configured").
			WithDetail("jurisdiction=" + jurisdiction)
	}
	return rec, nil
}

// Calculate derives every deadline the named event declares.
//
// The per-deadline adjustment order is fixed and must not be reordered:
//
//  1. total = offset.days + service bonus
//  2. candidate = base + total calendar days (one jump, not a business-day count)
//  3. if skip_weekends: roll forward past Saturday/Sunday
//  4. if skip_holidays: roll forward past holidays, strictly after step 3
//     and without re-checking the weekday, so this loop can land the result
//     back on a weekend
//  5. apply the deadline's time_of_day, seconds zeroed
//
// Any failure aborts the entire call; no partial deadline map is returned.
func (e *Engine) Calculate(req Request) (*Result, error) {
	rec, err := e.Pack(req.Jurisdiction)
	if err != nil {
		return nil, err
	}
	pack := rec.Pack

	event, ok := pack.Events[req.Event]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownEvent, "event is not defined for this jurisdiction").
			WithDetail("jurisdiction=" + req.Jurisdiction + " event=" + req.Event)
	}

	bonus, ok := serviceBonus[req.ServiceMethod]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedServiceMethod, "service method is not recognized").
			WithDetail("service_method=" + string(req.ServiceMethod))
	}

	base := civilDate(req.BaseDate)
	provider := e.holidays[req.Jurisdiction]

	deadlines := make(map[string]Entry, len(event.Deadlines))
	for _, spec := range event.Deadlines {
		entry, err := e.resolve(req.Jurisdiction, base, spec, req.ServiceMethod, bonus, provider, req.Explain)
		if err != nil {
			return nil, err
		}
		deadlines[spec.Name] = entry
	}

	return &Result{
		Jurisdiction:  req.Jurisdiction,
		Event:         req.Event,
		BaseDate:      base.Format("2006-01-02"),
		ServiceMethod: string(req.ServiceMethod),
		SchemaVersion: pack.SchemaVersion,
		Source:        pack.Source,
		Metadata: PackMetadata{
			State:       pack.State,
			DateCreated: pack.DateCreated,
			LastUpdated: pack.LastUpdated,
			Note:        pack.Note,
			PackPath:    rec.SourcePath,
		},
		Deadlines: deadlines,
	}, nil
}

// resolve applies the adjustment pipeline to a single deadline spec.
func (e *Engine) resolve(
	jurisdiction string,
	base time.Time,
	spec rulepack.DeadlineSpec,
	method ServiceMethod,
	bonus int,
	provider holiday.Provider,
	explain bool,
) (Entry, error) {
	hour, minute, err := rulepack.ParseTimeOfDay(spec.TimeOfDay)
	if err != nil {
		return Entry{}, errors.New(errors.ErrCodeInvalidTimeFormat, "time_of_day does not parse as H:MM").
			WithDetail("deadline=" + spec.Name + " time_of_day=" + spec.TimeOfDay)
	}

	var tr *traceBuilder
	if explain {
		tr = newTrace(base)
		tr.offset(spec.Offset.Days)
		tr.serviceBonus(method, bonus)
	}

	total := spec.Offset.Days + bonus
	candidate := base.AddDate(0, 0, total)

	if spec.Offset.SkipWeekends {
		candidate = rollForward(candidate, isWeekend)
		if tr != nil {
			tr.skipWeekends()
		}
	}

	if spec.Offset.SkipHolidays.Enabled() && provider != nil {
		candidate = rollForward(candidate, provider.IsHoliday)
		if tr != nil {
			tr.skipHolidays(jurisdiction)
		}
	}

	resolved := time.Date(candidate.Year(), candidate.Month(), candidate.Day(),
		hour, minute, 0, 0, time.UTC)

	entry := Entry{
		Date:         resolved.Format(isoNoZone),
		Cite:         spec.Cite,
		Notes:        spec.Notes,
		LastReviewed: spec.LastReviewed,
	}
	if tr != nil {
		tr.resolved(resolved)
		s := tr.String()
		entry.Trace = &s
	}
	return entry, nil
}
