package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/bginsber/docketcalc/internal/domain/deadline"
	"github.com/bginsber/docketcalc/pkg/errors"
)

// newCalcCommand builds the "calc" subcommand.
func newCalcCommand(opts *RootOptions) *cobra.Command {
	var (
		jurisdiction  string
		event         string
		baseDate      string
		serviceMethod string
		explain       bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute the deadlines a triggering event starts",
		Example: `  docketcalc calc --jurisdiction TX --event service_of_citation \
      --base-date 2025-10-20 --service mail --explain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := time.ParseInLocation("2006-01-02", baseDate, time.UTC)
			if err != nil {
				return errors.New(errors.ErrCodeBadRequest, "--base-date must be formatted YYYY-MM-DD")
			}

			svc, _, err := buildService(cmd.Context(), opts)
			if err != nil {
				return err
			}

			res, err := svc.Calculate(cmd.Context(), deadline.Request{
				Jurisdiction:  jurisdiction,
				Event:         event,
				BaseDate:      base,
				ServiceMethod: deadline.ServiceMethod(serviceMethod),
				Explain:       explain,
			})
			if err != nil {
				return err
			}
			return printResult(cmd, opts, res)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&jurisdiction, "jurisdiction", "j", "", "jurisdiction code (e.g. TX)")
	f.StringVarP(&event, "event", "e", "", "triggering event name")
	f.StringVarP(&baseDate, "base-date", "d", "", "base date, YYYY-MM-DD")
	f.StringVarP(&serviceMethod, "service", "s", "personal", "service method (personal, eservice, mail)")
	f.BoolVar(&explain, "explain", false, "include a per-deadline derivation trace")

	_ = cmd.MarkFlagRequired("jurisdiction")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("base-date")

	return cmd
}
