// Package cli implements the docketcalc command-line interface.  Commands
// build a local calculation engine straight from the pack and calendar
// directories; no running server is required.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bginsber/docketcalc/internal/application/docket"
	"github.com/bginsber/docketcalc/internal/domain/deadline"
	"github.com/bginsber/docketcalc/internal/domain/rulepack"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global CLI flags.
type RootOptions struct {
	RulesDir     string
	CalendarDir  string
	OutputFormat string
	Verbose      bool
}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "docketcalc",
		Short:   "Compute litigation filing deadlines from jurisdiction rule packs",
		Long:    "docketcalc resolves court filing deadlines for a triggering event\nusing declarative per-jurisdiction rule packs and holiday calendars.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.RulesDir, "rules-dir", "rulepacks", "rule pack directory")
	pf.StringVar(&opts.CalendarDir, "calendar-dir", "calendars", "holiday calendar directory")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newCalcCommand(opts),
		newPacksCommand(opts),
	)
	return cmd
}

// Execute runs the CLI and returns the exit error, if any.
func Execute() error {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
		return err
	}
	return nil
}

// cliLogger builds a console logger suitable for terminal use.
func cliLogger(opts *RootOptions) (logging.Logger, error) {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:       level,
		Format:      "console",
		OutputPaths: []string{"stderr"},
	})
}

// buildService assembles a local calculation service from the directories
// the flags point at.
func buildService(ctx context.Context, opts *RootOptions) (*docket.Service, logging.Logger, error) {
	log, err := cliLogger(opts)
	if err != nil {
		return nil, nil, err
	}

	loader := rulepack.NewLoader(rulepack.NewFSSource(opts.RulesDir), log)
	engine, err := docket.BuildEngine(ctx, loader, opts.CalendarDir)
	if err != nil {
		return nil, nil, err
	}
	return docket.NewService(engine, log), log, nil
}

// printResult renders data honoring the --output flag.
func printResult(cmd *cobra.Command, opts *RootOptions, data any) error {
	if strings.EqualFold(opts.OutputFormat, "json") {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	return printText(cmd, data)
}

func printText(cmd *cobra.Command, data any) error {
	switch v := data.(type) {
	case *deadline.Result:
		printDeadlines(cmd, v)
	case string:
		fmt.Fprintln(cmd.OutOrStdout(), v)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", v)
	}
	return nil
}

func printDeadlines(cmd *cobra.Command, res *deadline.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s / %s (base %s, %s service)\n",
		res.Jurisdiction, res.Event, res.BaseDate, res.ServiceMethod)

	headers := []string{"DEADLINE", "DUE", "CITE"}
	var rows [][]string
	for _, name := range sortedDeadlineNames(res) {
		e := res.Deadlines[name]
		rows = append(rows, []string{name, e.Date, e.Cite})
	}
	fmt.Fprint(out, formatTable(headers, rows))

	for _, name := range sortedDeadlineNames(res) {
		if tr := res.Deadlines[name].Trace; tr != nil {
			fmt.Fprintf(out, "\n%s: %s\n", name, *tr)
		}
	}
}

func sortedDeadlineNames(res *deadline.Result) []string {
	names := make([]string, 0, len(res.Deadlines))
	for name := range res.Deadlines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// formatTable renders headers and rows as an aligned text table.
func formatTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(padRight(cell, widths[i]))
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(headers))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
