package main

import (
	"go.uber.org/zap"
)

// newLogger builds the operator logger. The TUI owns stdout, so debug logs
// go to a file under the config dir; without --debug logging is a no-op.
func newLogger(path string, debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
