package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/vk/dgrun/internal/app"
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

const usage = `
dgrun - drive a druggability analysis session.

Usage:
  dgrun [VERBOSE]

Arguments:
  VERBOSE
    Verbosity handed to the analysis engine (default "info"), e.g. none,
    critical, error, warning, info, debug. Further arguments are ignored.

Environment:
  DGRUN_RUN_FILE       HCL run description (file or directory). Unset runs
                       the built-in MDM2 sample.
  DGRUN_ENGINE         Engine to drive: "pydia" (default) or "record" (dry run).
  DGRUN_PYTHON         Python interpreter for the pydia engine (default "python").
  DGRUN_LOG_FORMAT     "text" (default) or "json".
  DGRUN_JOURNAL        SQLite file recording runs and session calls.
  DGRUN_OTLP_ENDPOINT  OTLP/HTTP endpoint for traces.
`

// Parse processes the command-line arguments and environment. It returns a
// populated app.Config, a boolean indicating if the program should exit
// cleanly, or an ExitError.
//
// The only positional argument is the engine verbosity. Anything after it
// is ignored.
func Parse(args []string, environ map[string]string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	verbose := app.DefaultVerbose
	if len(args) > 0 {
		switch args[0] {
		case "-h", "-help", "--help":
			fmt.Fprint(output, usage)
			return nil, true, nil
		}
		verbose = args[0]
	}
	if len(args) > 1 {
		slog.Debug("Ignoring extra arguments.", "args", args[1:])
	}

	var cfg app.Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid environment: %v", err)}
	}
	cfg.Verbose = verbose

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "verbose", config.Verbose, "engine", config.Engine)
	return config, false, nil
}
