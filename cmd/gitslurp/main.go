// Command gitslurp crawls GitHub issues and pull requests into datasets.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/gitslurp/internal/adapters/driving/cli"
	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode maps failures to distinct exit statuses.
func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, domain.ErrInvalidInput):
		return 2
	default:
		return 1
	}
}
