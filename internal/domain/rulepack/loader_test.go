package rulepack_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bginsber/docketcalc/internal/domain/rulepack"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	apperrors "github.com/bginsber/docketcalc/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

const validPackYAML = `
state: TX
schema_version: "1.0"
date_created: "2025-01-15"
last_updated: "2025-09-01"
source: Texas Rules of Civil Procedure
note: statewide defaults
events:
  service_of_citation:
    description: Defendant served with citation and petition
    deadlines:
      - name: answer_due
        cite: Tex. R. Civ. P. 99(b)
        time_of_day: "10:00"
        last_reviewed: "2025-08-15"
        offset:
          days: 20
          skip_weekends: true
          skip_holidays: false
`

func writePack(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func newLoader(t *testing.T, dir string) *rulepack.Loader {
	t.Helper()
	return rulepack.NewLoader(rulepack.NewFSSource(dir), logging.NewNopLogger())
}

// ─────────────────────────────────────────────────────────────────────────────
// Load
// ─────────────────────────────────────────────────────────────────────────────

func TestLoad_ValidPack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePack(t, dir, "tx.yaml", validPackYAML)

	rec, err := newLoader(t, dir).Load(context.Background(), "tx.yaml")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "TX", rec.Pack.State)
	assert.Equal(t, filepath.Join(dir, "tx.yaml"), rec.SourcePath)

	ev, ok := rec.Pack.Events["service_of_citation"]
	require.True(t, ok)
	require.Len(t, ev.Deadlines, 1)

	dl := ev.Deadlines[0]
	assert.Equal(t, "answer_due", dl.Name)
	assert.Equal(t, 20, dl.Offset.Days)
	assert.True(t, dl.Offset.SkipWeekends)
	assert.False(t, dl.Offset.SkipHolidays.Enabled())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	rec, err := newLoader(t, t.TempDir()).Load(context.Background(), "nowhere.yaml")
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodePackNotFound))
	assert.Contains(t, err.Error(), "nowhere.yaml")
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePack(t, dir, "empty.yaml", "   \n\t\n")

	_, err := newLoader(t, dir).Load(context.Background(), "empty.yaml")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodePackMalformed))
}

func TestLoad_UnparseableDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePack(t, dir, "broken.yaml", "state: [unclosed\nevents: {{{")

	_, err := newLoader(t, dir).Load(context.Background(), "broken.yaml")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodePackMalformed))
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{
			name: "missing state",
			body: `
schema_version: "1.0"
date_created: "2025-01-15"
last_updated: "2025-09-01"
source: somewhere
events:
  e:
    description: d
    deadlines:
      - {name: n, cite: c, time_of_day: "9:00", offset: {days: 1}}
`,
		},
		{
			name: "event without deadlines",
			body: `
state: TX
schema_version: "1.0"
date_created: "2025-01-15"
last_updated: "2025-09-01"
source: somewhere
events:
  e:
    description: d
    deadlines: []
`,
		},
		{
			name: "deadline without cite",
			body: `
state: TX
schema_version: "1.0"
date_created: "2025-01-15"
last_updated: "2025-09-01"
source: somewhere
events:
  e:
    description: d
    deadlines:
      - {name: n, time_of_day: "9:00", offset: {days: 1}}
`,
		},
		{
			name: "duplicate deadline names within event",
			body: `
state: TX
schema_version: "1.0"
date_created: "2025-01-15"
last_updated: "2025-09-01"
source: somewhere
events:
  e:
    description: d
    deadlines:
      - {name: n, cite: c1, time_of_day: "9:00", offset: {days: 1}}
      - {name: n, cite: c2, time_of_day: "9:00", offset: {days: 2}}
`,
		},
		{
			name: "unparseable time_of_day",
			body: `
state: TX
schema_version: "1.0"
date_created: "2025-01-15"
last_updated: "2025-09-01"
source: somewhere
events:
  e:
    description: d
    deadlines:
      - {name: n, cite: c, time_of_day: "25:99", offset: {days: 1}}
`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writePack(t, dir, "bad.yaml", tc.body)

			_, err := newLoader(t, dir).Load(context.Background(), "bad.yaml")
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodePackInvalid),
				"expected PACK_003, got %v", err)
		})
	}
}

func TestLoad_SkipHolidaysListFormMeansEnabled(t *testing.T) {
	t.Parallel()

	// Legacy pack documents express skip_holidays as a list of named
	// holidays; any non-empty list collapses to an enabled switch.
	dir := t.TempDir()
	writePack(t, dir, "legacy.yaml", `
state: CA
schema_version: "1.0"
date_created: "2025-01-15"
last_updated: "2025-09-01"
source: California Code of Civil Procedure
events:
  complaint_served:
    description: Complaint served on defendant
    deadlines:
      - name: response_due
        cite: Cal. Code Civ. Proc. 412.20
        time_of_day: "17:00"
        offset:
          days: 30
          skip_weekends: true
          skip_holidays:
            - new_years_day
            - thanksgiving
`)

	rec, err := newLoader(t, dir).Load(context.Background(), "legacy.yaml")
	require.NoError(t, err)

	dl := rec.Pack.Events["complaint_served"].Deadlines[0]
	assert.True(t, dl.Offset.SkipHolidays.Enabled())
}

// ─────────────────────────────────────────────────────────────────────────────
// LoadAll
// ─────────────────────────────────────────────────────────────────────────────

func TestLoadAll_KeyedByJurisdiction(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePack(t, dir, "tx.yaml", validPackYAML)
	writePack(t, dir, "fl.yaml", `
state: FL
schema_version: "1.0"
date_created: "2025-02-01"
last_updated: "2025-09-01"
source: Florida Rules of Civil Procedure
events:
  final_judgment:
    description: Final judgment rendered
    deadlines:
      - {name: appeal_due, cite: "Fla. R. App. P. 9.110(b)", time_of_day: "23:59", offset: {days: 30, skip_weekends: true, skip_holidays: true}}
`)
	writePack(t, dir, "README.txt", "not a pack")

	records, err := newLoader(t, dir).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Contains(t, records, "TX")
	assert.Contains(t, records, "FL")
}

func TestLoadAll_DuplicateJurisdictionRejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePack(t, dir, "tx.yaml", validPackYAML)
	writePack(t, dir, "tx_copy.yaml", validPackYAML)

	_, err := newLoader(t, dir).LoadAll(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodePackInvalid))
	assert.Contains(t, err.Error(), "TX")
}

func TestLoadAll_OneBadPackAbortsAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePack(t, dir, "tx.yaml", validPackYAML)
	writePack(t, dir, "zz.yaml", "not: [valid")

	records, err := newLoader(t, dir).LoadAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, records)
}

// ─────────────────────────────────────────────────────────────────────────────
// ParseTimeOfDay
// ─────────────────────────────────────────────────────────────────────────────

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     string
		hour   int
		minute int
		ok     bool
	}{
		{"0:00", 0, 0, true},
		{"9:05", 9, 5, true},
		{"09:05", 9, 5, true},
		{"17:00", 17, 0, true},
		{"23:59", 23, 59, true},
		{"24:00", 0, 0, false},
		{"12:60", 0, 0, false},
		{"12:5", 0, 0, false},
		{"noon", 0, 0, false},
		{"", 0, 0, false},
		{"12:00:00", 0, 0, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			h, m, err := rulepack.ParseTimeOfDay(tc.in)
			if !tc.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.hour, h)
			assert.Equal(t, tc.minute, m)
		})
	}
}
