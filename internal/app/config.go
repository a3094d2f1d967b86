package app

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/trace"
)

// DefaultVerbose is the engine verbosity used when none is given.
const DefaultVerbose = "info"

// Config holds all the necessary configuration for an App instance to run.
// Fields tagged env are read from the environment by the cli package.
type Config struct {
	// RunFile is an HCL file or directory; empty selects the built-in sample.
	RunFile string `env:"DGRUN_RUN_FILE"`
	Engine  string `env:"DGRUN_ENGINE" envDefault:"pydia"`
	Python  string `env:"DGRUN_PYTHON" envDefault:"python"`

	LogFormat    string `env:"DGRUN_LOG_FORMAT" envDefault:"text"`
	Journal      string `env:"DGRUN_JOURNAL"`
	OTLPEndpoint string `env:"DGRUN_OTLP_ENDPOINT"`

	// Verbose is passed to the engine unchanged and also sets the log level.
	Verbose string `env:"-"`

	// TracerProvider overrides the global provider. Used by tests.
	TracerProvider trace.TracerProvider `env:"-"`
}

// NewConfig validates cfg and fills defaults that the environment did not.
// Verbose is kept as given, including an empty value.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Engine == "" {
		return nil, errors.New("engine must not be empty")
	}
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	return &cfg, nil
}
