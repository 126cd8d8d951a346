// Package cli turns command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/codeflow-sentinel/pipesim/internal/app"
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

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating the program should exit cleanly (help or no input),
// or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("pipesim", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
pipesim - a CI/CD pipeline simulation scheduler.

Usage:
  pipesim [options] PIPELINE_PATH
  pipesim -serve [options]

Arguments:
  PIPELINE_PATH
    Path to a pipeline definition (.json, .yaml or .hcl).

Options:
`)
		flagSet.PrintDefaults()
	}

	pipelineFlag := flagSet.String("pipeline", "", "Path to the pipeline definition file.")
	pFlag := flagSet.String("p", "", "Path to the pipeline definition file (shorthand).")
	outFlag := flagSet.String("out", "", "Write the JSON result to this file instead of stdout.")
	serveFlag := flagSet.Bool("serve", false, "Run the HTTP API server instead of a one-shot simulation.")
	portFlag := flagSet.Int("port", 0, "Port for the HTTP API server.")
	seedFlag := flagSet.Int64("seed", 0, "Seed for the simulator's random source. 0 uses a time-based seed.")
	noDelayFlag := flagSet.Bool("no-delay", false, "Skip the in-process wait for simulated stage durations.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")
	settingsFlag := flagSet.String("settings", app.DefaultSettingsPath(), "Path to the TOML settings file.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *pipelineFlag != "" {
		path = *pipelineFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" && !*serveFlag {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "", "text", "json":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	return &app.Config{
		PipelinePath: path,
		OutPath:      *outFlag,
		Serve:        *serveFlag,
		Port:         *portFlag,
		Seed:         *seedFlag,
		NoDelay:      *noDelayFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		SettingsPath: *settingsFlag,
	}, false, nil
}
