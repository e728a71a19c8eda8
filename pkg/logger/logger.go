// Package logger constructs the structured logger threaded through the
// runtime core. pkg/runtime, pkg/label and pkg/wsdata (its datatype
// Registry) accept a *zap.SugaredLogger field and log with key/value pairs
// rather than fmt.Printf-style logging; the other packages take no logger.
package logger

import (
	"go.uber.org/zap"
)

// New builds a production-configured, sugared logger annotated with the
// given service name. Callers that already have a *zap.Logger (e.g. a
// hosting process wiring many libraries together) should call
// NewFromLogger instead so the whole process shares one sink.
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails on sink construction; fall back to a
		// no-op logger rather than panicking out of a library constructor.
		base = zap.NewNop()
	}
	return base.Sugar().With("service", service)
}

// NewFromLogger wraps an existing *zap.Logger instead of constructing a new
// sink, so the runtime core shares the host process's logging pipeline.
func NewFromLogger(base *zap.Logger, service string) *zap.SugaredLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return base.Sugar().With("service", service)
}

// Nop returns a logger that discards everything, used by package-level
// tests that don't want to assert on log output.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
