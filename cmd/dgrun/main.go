package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/vk/dgrun/internal/app"
	"github.com/vk/dgrun/internal/cli"
	"github.com/vk/dgrun/internal/hcl"
	"github.com/vk/dgrun/internal/telemetry"
)

// main is the entrypoint for the dgrun application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Args[1:], env.ToMap(os.Environ()))
	stop()

	// The real main function handles errors and exit codes.
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string, environ map[string]string) error {
	appConfig, shouldExit, err := cli.Parse(args, environ, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	shutdown, err := telemetry.Setup(ctx, appConfig.OTLPEndpoint, "dgrun")
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("Failed to flush traces.", "error", err)
		}
	}()

	dgApp, err := app.NewApp(outW, appConfig, hcl.NewLoader())
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}
	defer dgApp.Close()

	return dgApp.Run(ctx)
}
