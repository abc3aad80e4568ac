package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/graphforge/internal/app"
	"github.com/vk/graphforge/internal/cli"
)

// main is the entrypoint for the graphforge server.
func main() {
	// Bare-bones logger until flags are parsed and the real one is built.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Diagnostics go to logW; stdout belongs to the MCP transport.
func run(logW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, logW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// NewApp panics on unrecoverable startup problems, e.g. an unreadable
	// type manifest. Turn that into a regular error for main to report.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	graphforgeApp := app.NewApp(logW, appConfig)

	return graphforgeApp.Run(context.Background())
}
