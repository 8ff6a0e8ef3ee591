// Package logger provides the shared zap logger construction for emberdb.
// Every subsystem receives a *zap.SugaredLogger built here so that log output
// stays consistent across the storage engine, the streams and the public API.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a structured logger tagged with the given service name.
// The logger writes JSON to stdout with ISO8601 timestamps, which makes the
// output directly consumable by log aggregation pipelines.
func New(service string) *zap.SugaredLogger {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.TimeKey = "timestamp"

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config),
		zapcore.Lock(os.Stdout),
		zapcore.InfoLevel,
	)

	return zap.New(core).Sugar().With("service", service)
}

// NewNop returns a logger that discards everything. Used by tests and by
// callers that embed emberdb and carry their own logging stack.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
