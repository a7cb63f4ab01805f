package deadline

import (
	"fmt"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Trace builder
// ─────────────────────────────────────────────────────────────────────────────

// traceBuilder accumulates a selective, human-readable explanation of which
// adjustment rules were applied to one deadline.  It records only the steps
// that were enabled for the deadline, not the individual day-advance iterations
// inside the roll-forward loops.
type traceBuilder struct {
	steps []string
}

func newTrace(base time.Time) *traceBuilder {
	return &traceBuilder{
		steps: []string{"base " + base.Format("2006-01-02")},
	}
}

func (t *traceBuilder) offset(days int) {
	t.steps = append(t.steps, fmt.Sprintf("%+d days", days))
}

// serviceBonus records the service-method bonus, but only when it is non-zero:
// a zero bonus applied no rule worth explaining.
func (t *traceBuilder) serviceBonus(method ServiceMethod, days int) {
	if days == 0 {
		return
	}
	t.steps = append(t.steps, fmt.Sprintf("%+d days %s service", days, method))
}

func (t *traceBuilder) skipWeekends() {
	t.steps = append(t.steps, "skip weekends")
}

func (t *traceBuilder) skipHolidays(jurisdiction string) {
	t.steps = append(t.steps, "skip "+jurisdiction+" holidays")
}

func (t *traceBuilder) resolved(d time.Time) {
	t.steps = append(t.steps, "due "+d.Format(isoNoZone))
}

// String renders the trace as a single ordered line.
func (t *traceBuilder) String() string {
	return strings.Join(t.steps, " -> ")
}
