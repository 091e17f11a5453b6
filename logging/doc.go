// Package logging provides a minimal logging interface and adapters for the
// orchestration engine.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the engine and agent runner use for observability. This
// package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - TurnLogger with per-turn context and domain helpers
//
// Usage:
//
//	logger := logging.NewLogger(logging.DefaultLoggerConfig())
//	eng := engine.New(runner, func(o *engine.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
