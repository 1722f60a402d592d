package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shopseed/shopseed/internal/app"
	"github.com/shopseed/shopseed/internal/seed"
)

func newApplyCommand(out io.Writer, open app.OpenFunc) *cobra.Command {
	var (
		dryRun bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the seed plan to the customers collection",
		Long: `Apply inserts customer 3, sets customer 1's age to 31, deletes customer 2
and inserts customers 4 and 5, in that order. The run halts at the first
failing step unless --continue-on-error is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), open, func(a *app.App) error {
				var (
					rep *seed.Report
					err error
				)
				if dryRun {
					rep, err = a.DryRun(cmd.Context(), seed.DefaultPlan())
				} else {
					rep, err = a.Runner().Apply(cmd.Context(), seed.DefaultPlan())
				}
				if rep != nil {
					if asJSON {
						if werr := writeJSON(out, rep); werr != nil {
							return werr
						}
					} else {
						printReport(out, rep, dryRun)
					}
				}
				return err
			})
		},
	}

	cmd.Flags().Bool("continue-on-error", false, "Keep applying steps after a failure")
	_ = viper.BindPFlag("SEED_CONTINUE_ON_ERROR", cmd.Flags().Lookup("continue-on-error"))
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Apply to an in-memory copy of the collection")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run report as JSON")
	return cmd
}

func printReport(out io.Writer, rep *seed.Report, dryRun bool) {
	mode := ""
	if dryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(out, "run %s on %s.%s%s\n", rep.RunID, rep.Database, rep.Collection, mode)
	for _, s := range rep.Steps {
		var status string
		switch {
		case s.Skipped:
			status = "skipped"
		case s.Error != "":
			status = "FAILED: " + s.Error
		default:
			status = fmt.Sprintf("ok inserted=%d matched=%d modified=%d deleted=%d", s.Inserted, s.Matched, s.Modified, s.Deleted)
		}
		fmt.Fprintf(out, "  %d. %-10s %-14s %s\n", s.Index, s.Op, s.Target, status)
	}
	fmt.Fprintf(out, "%d/%d steps applied, halted=%v\n", rep.Applied(), len(rep.Steps), rep.Halted)
}
