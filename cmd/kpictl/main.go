// Command kpictl prints dashboard KPIs, tables and assistant answers.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/execdash/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
