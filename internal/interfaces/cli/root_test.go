package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bginsber/docketcalc/internal/domain/deadline"
	"github.com/bginsber/docketcalc/pkg/errors"
)

const txFixture = `state: TX
schema_version: "1.0"
date_created: "2025-01-15"
last_updated: "2025-09-01"
source: "Texas Rules of Civil Procedure"
events:
  served_petition:
    description: "Defendant served"
    deadlines:
      - name: answer_due
        cite: "Tex. R. Civ. P. 99(b)"
        offset:
          days: 20
          skip_weekends: true
          skip_holidays: false
        time_of_day: "10:00"
`

const txCalendarFixture = `jurisdiction: TX
dates:
  - "2025-11-27"
  - "2025-11-28"
`

func writeFixtures(t *testing.T) (rulesDir, calendarDir string) {
	t.Helper()
	rulesDir = t.TempDir()
	calendarDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "tx.yaml"), []byte(txFixture), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(calendarDir, "tx.yaml"), []byte(txCalendarFixture), 0o644))
	return rulesDir, calendarDir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalcCommand_JSONOutput(t *testing.T) {
	rulesDir, calendarDir := writeFixtures(t)

	out, err := runCLI(t,
		"calc",
		"--rules-dir", rulesDir,
		"--calendar-dir", calendarDir,
		"--jurisdiction", "TX",
		"--event", "served_petition",
		"--base-date", "2025-10-20",
		"--output", "json",
	)
	require.NoError(t, err, out)

	var res deadline.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "TX", res.Jurisdiction)
	assert.Equal(t, "2025-11-10T10:00:00", res.Deadlines["answer_due"].Date)
}

func TestCalcCommand_TextOutputListsDeadlines(t *testing.T) {
	rulesDir, calendarDir := writeFixtures(t)

	out, err := runCLI(t,
		"calc",
		"--rules-dir", rulesDir,
		"--calendar-dir", calendarDir,
		"-j", "TX",
		"-e", "served_petition",
		"-d", "2025-10-20",
		"--explain",
	)
	require.NoError(t, err, out)
	assert.Contains(t, out, "answer_due")
	assert.Contains(t, out, "2025-11-10T10:00:00")
	assert.Contains(t, out, "skip weekends")
}

func TestCalcCommand_RejectsBadDate(t *testing.T) {
	rulesDir, calendarDir := writeFixtures(t)

	_, err := runCLI(t,
		"calc",
		"--rules-dir", rulesDir,
		"--calendar-dir", calendarDir,
		"-j", "TX",
		"-e", "served_petition",
		"-d", "10/20/2025",
	)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestCalcCommand_UnknownJurisdiction(t *testing.T) {
	rulesDir, calendarDir := writeFixtures(t)

	_, err := runCLI(t,
		"calc",
		"--rules-dir", rulesDir,
		"--calendar-dir", calendarDir,
		"-j", "NV",
		"-e", "served_petition",
		"-d", "2025-10-20",
	)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedJurisdiction))
}

func TestPacksListCommand(t *testing.T) {
	rulesDir, calendarDir := writeFixtures(t)

	out, err := runCLI(t, "packs", "list",
		"--rules-dir", rulesDir, "--calendar-dir", calendarDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "JURISDICTION")
	assert.Contains(t, out, "TX")
	assert.Contains(t, out, "Texas Rules of Civil Procedure")
}

func TestPacksShowCommand(t *testing.T) {
	rulesDir, calendarDir := writeFixtures(t)

	out, err := runCLI(t, "packs", "show", "TX",
		"--rules-dir", rulesDir, "--calendar-dir", calendarDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "served_petition")
	assert.Contains(t, out, "answer_due")
	assert.Contains(t, out, "Tex. R. Civ. P. 99(b)")
}

func TestPacksLintCommand(t *testing.T) {
	rulesDir, calendarDir := writeFixtures(t)

	out, err := runCLI(t, "packs", "lint",
		"--rules-dir", rulesDir, "--calendar-dir", calendarDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "ok  TX")
	assert.Contains(t, out, "2 holiday dates")
}

func TestPacksLintCommand_ReportsInvalidPack(t *testing.T) {
	rulesDir, calendarDir := writeFixtures(t)
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "bad.yaml"),
		[]byte("state: \"\"\n"), 0o644))

	_, err := runCLI(t, "packs", "lint",
		"--rules-dir", rulesDir, "--calendar-dir", calendarDir)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePackInvalid))
}
