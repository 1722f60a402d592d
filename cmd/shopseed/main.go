package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopseed/shopseed/internal/app"
	"github.com/shopseed/shopseed/internal/cli"
	"github.com/shopseed/shopseed/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(os.Stdout, os.Stderr, app.Open).ExecuteContext(ctx); err != nil {
		logger.Errorf("shopseed: %v", err)
		logger.Sync()
		stop()
		os.Exit(1)
	}
	logger.Sync()
}
