// Package cli parses command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/flowgrid/internal/app"
)

// ExitError is an error that also carries the process exit code the
// caller should use.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Parse processes command-line arguments, returning a populated
// app.Config, a boolean indicating a clean (help/usage) exit, or an
// ExitError naming the exit code a malformed invocation should use.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("flowgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
flowgrid - a dataflow graph scheduler.

Usage:
  flowgrid [options] [GRID_PATH]

Arguments:
  GRID_PATH
    Path to a .hcl grid file, or a directory of them, describing modules,
    edges, and a respawn policy.

Options:
`)
		flagSet.PrintDefaults()
	}

	gridFlag := flagSet.String("grid", "", "Path to the grid file.")
	gFlag := flagSet.String("g", "", "Path to the grid file (shorthand).")
	workersFlag := flagSet.Int("workers", 4, "Number of worker goroutines.")
	foreverFlag := flagSet.Bool("forever", false, "Ignore the grid's respawn block and run forever.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 disables it.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Log level: 'debug', 'info', 'warn', or 'error'.")
	socketioFlag := flagSet.String("socketio-sink", "", "socket.io endpoint to publish the stats report to.")
	httpSinkFlag := flagSet.String("http-sink", "", "HTTP endpoint to POST the stats report to.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *gridFlag
	if path == "" {
		path = *gFlag
	}
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg, err := app.NewConfig(app.Config{
		GridPath:        path,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		WorkerCount:     *workersFlag,
		Forever:         *foreverFlag,
		HealthcheckPort: *healthPortFlag,
		SocketIOURL:     *socketioFlag,
		HTTPSinkURL:     *httpSinkFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return cfg, false, nil
}
