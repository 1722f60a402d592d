package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/shopseed/shopseed/internal/app"
	"github.com/shopseed/shopseed/internal/config"
	"github.com/shopseed/shopseed/internal/seed"
	"github.com/shopseed/shopseed/internal/tokens"
)

var errVerifyFailed = errors.New("collection does not match the seed plan")

func newVerifyCommand(out io.Writer, open app.OpenFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the collection against the state the seed plan leaves behind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), open, func(a *app.App) error {
				violations, err := seed.Verify(cmd.Context(), a.Customers, seed.DefaultPlan())
				if err != nil {
					return err
				}
				if len(violations) == 0 {
					fmt.Fprintln(out, "ok")
					return nil
				}
				for _, v := range violations {
					fmt.Fprintln(out, v)
				}
				return fmt.Errorf("%w: %d violation(s)", errVerifyFailed, len(violations))
			})
		},
	}
}

func newListCommand(out io.Writer, open app.OpenFunc) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), open, func(a *app.App) error {
				list, err := a.Customers.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, list)
				}
				for _, c := range list {
					fmt.Fprintf(out, "%d\t%s\t%d\t%s\n", c.ID, c.Name, c.Age, c.City)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newRunsCommand(out io.Writer, open app.OpenFunc) *cobra.Command {
	var limit int64
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent seed runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), open, func(a *app.App) error {
				runs, err := a.History.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				for _, r := range runs {
					status := "ok"
					if r.Failed() {
						status = "failed"
					}
					fmt.Fprintf(out, "%s\t%s\t%d/%d\t%s\n", r.RunID, r.StartedAt.Format(time.RFC3339), r.Applied(), len(r.Steps), status)
				}
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&limit, "limit", 20, "Maximum number of runs")
	return cmd
}

func newPlanCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the seed plan steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, m := range seed.DefaultPlan() {
				fmt.Fprintf(out, "%d. %s\n", i+1, m)
			}
			return nil
		},
	}
}

func newTokenCommand(out io.Writer) *cobra.Command {
	var (
		sub string
		ttl time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator token for POST /api/seed/runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jc := config.LoadJWTConfig()
			if ttl <= 0 {
				ttl = jc.OperatorTokenTTL
			}
			tok, err := tokens.GenerateOperatorToken(jc.Secret, sub, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&sub, "sub", "", "Operator subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default $JWT_OPERATOR_TOKEN_TTL minutes)")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
