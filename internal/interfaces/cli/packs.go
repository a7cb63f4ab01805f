package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bginsber/docketcalc/internal/domain/holiday"
	"github.com/bginsber/docketcalc/internal/domain/rulepack"
)

// newPacksCommand builds the "packs" subcommand group.
func newPacksCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packs",
		Short: "Inspect and validate rule pack documents",
	}
	cmd.AddCommand(
		newPacksListCommand(opts),
		newPacksShowCommand(opts),
		newPacksLintCommand(opts),
	)
	return cmd
}

func newPacksListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loaded jurisdictions",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := buildService(cmd.Context(), opts)
			if err != nil {
				return err
			}

			headers := []string{"JURISDICTION", "SCHEMA", "UPDATED", "EVENTS", "SOURCE"}
			var rows [][]string
			for _, j := range svc.Jurisdictions() {
				rec, err := svc.Pack(j)
				if err != nil {
					return err
				}
				p := rec.Pack
				rows = append(rows, []string{
					p.State, p.SchemaVersion, p.LastUpdated,
					fmt.Sprintf("%d", len(p.Events)), p.Source,
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatTable(headers, rows))
			return nil
		},
	}
}

func newPacksShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <jurisdiction>",
		Short: "Show one jurisdiction's events and deadlines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := buildService(cmd.Context(), opts)
			if err != nil {
				return err
			}
			rec, err := svc.Pack(args[0])
			if err != nil {
				return err
			}
			if opts.OutputFormat == "json" {
				return printResult(cmd, opts, rec.Pack)
			}

			p := rec.Pack
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (schema %s, updated %s)\nsource: %s\n\n",
				p.State, p.SchemaVersion, p.LastUpdated, p.Source)

			eventNames := make([]string, 0, len(p.Events))
			for name := range p.Events {
				eventNames = append(eventNames, name)
			}
			sort.Strings(eventNames)

			for _, name := range eventNames {
				ev := p.Events[name]
				fmt.Fprintf(out, "%s: %s\n", name, ev.Description)
				headers := []string{"  DEADLINE", "DAYS", "WEEKENDS", "HOLIDAYS", "TIME", "CITE"}
				var rows [][]string
				for _, dl := range ev.Deadlines {
					rows = append(rows, []string{
						"  " + dl.Name,
						fmt.Sprintf("%+d", dl.Offset.Days),
						yesNo(dl.Offset.SkipWeekends),
						yesNo(dl.Offset.SkipHolidays.Enabled()),
						dl.TimeOfDay,
						dl.Cite,
					})
				}
				fmt.Fprint(out, formatTable(headers, rows))
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

// newPacksLintCommand validates every pack and calendar without building a
// service, reporting the first failure with its error code.
func newPacksLintCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Validate every rule pack and holiday calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := cliLogger(opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			loader := rulepack.NewLoader(rulepack.NewFSSource(opts.RulesDir), log)
			records, err := loader.LoadAll(ctx)
			if err != nil {
				return err
			}

			providers, err := holiday.LoadDir(opts.CalendarDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, j := range sortedKeys(records) {
				rec := records[j]
				calendar := "no calendar"
				if p, ok := providers[j].(*holiday.Calendar); ok {
					calendar = fmt.Sprintf("%d holiday dates", p.Len())
				}
				fmt.Fprintf(out, "ok  %s  %d events, %s  (%s)\n",
					j, len(rec.Pack.Events), calendar, rec.SourcePath)
			}
			for j := range providers {
				if _, ok := records[j]; !ok {
					fmt.Fprintf(out, "warn  calendar for %s has no rule pack\n", j)
				}
			}
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func sortedKeys(m map[string]*rulepack.Record) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
