// Package cli implements the shopseed command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shopseed/shopseed/internal/app"
	"github.com/shopseed/shopseed/internal/config"
	"github.com/shopseed/shopseed/pkg/logger"
)

// NewRootCommand builds the shopseed command tree. Command results go to out;
// log entries and cobra diagnostics go to errOut so that --json output stays
// machine readable. open connects the backends for commands that touch the
// database; app.Open in production.
func NewRootCommand(out, errOut io.Writer, open app.OpenFunc) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "shopseed",
		Short:         "Seed and inspect the shop customers collection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel == "" {
				logLevel = viper.GetString("LOG_LEVEL")
			}
			logger.SetOutput(errOut)
			logger.Init(logLevel)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (default $LOG_LEVEL or info)")

	cmd.AddCommand(newApplyCommand(out, open))
	cmd.AddCommand(newVerifyCommand(out, open))
	cmd.AddCommand(newListCommand(out, open))
	cmd.AddCommand(newRunsCommand(out, open))
	cmd.AddCommand(newPlanCommand(out))
	cmd.AddCommand(newTokenCommand(out))
	return cmd
}

// withApp loads configuration, opens the backends and closes them after fn.
func withApp(ctx context.Context, open app.OpenFunc, fn func(*app.App) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	a, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warnf("close: %v", err)
		}
	}()
	return fn(a)
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
