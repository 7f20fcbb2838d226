// Package app wires together grid loading, logger construction, and the
// scheduler into a runnable application.
package app

import "errors"

// Config holds everything an App needs to run one grid.
type Config struct {
	GridPath string // path to a .hcl grid file

	LogFormat string // "text" or "json"
	LogLevel  string // "debug", "info", "warn", "error"

	WorkerCount     int
	Forever         bool   // ignore the grid's respawn block and run forever
	HealthcheckPort int    // 0 disables the health check server
	SocketIOURL     string // optional telemetry sink
	HTTPSinkURL     string // optional telemetry sink
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, errors.New("GridPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 1 {
		return nil, errors.New("WorkerCount must be >= 1")
	}
	return &cfg, nil
}
