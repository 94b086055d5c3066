// Package main is the entry point for the secrets-auditor CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"secretsAuditor/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		if errors.Is(err, cli.ErrUnusedSecrets) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
