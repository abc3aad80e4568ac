package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/graphforge/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("graphforge", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
GraphForge - An MCP server for editing callable graph documents.

Usage:
  graphforge [options] [DOCUMENT_NAME]

Arguments:
  DOCUMENT_NAME
    Name of the graph document to host. Defaults to "Untitled".

Options:
`)
		flagSet.PrintDefaults()
	}

	documentFlag := flagSet.String("document", "", "Name of the graph document to host.")
	dFlag := flagSet.String("d", "", "Name of the graph document to host (shorthand).")
	typesPathFlag := flagSet.String("types-path", "", "Path to a directory of .hcl type manifests. Empty uses builtins only.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	document := ""
	if *documentFlag != "" {
		document = *documentFlag
	} else if *dFlag != "" {
		document = *dFlag
	} else if flagSet.NArg() > 0 {
		document = flagSet.Arg(0)
	}
	if document == "" {
		document = "Untitled"
	}
	slog.Debug("Document name determined.", "document", document)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Document:  document,
		TypesPath: *typesPathFlag,
		LogFormat: logFormat,
		LogLevel:  logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
