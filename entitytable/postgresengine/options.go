package postgresengine

import (
	"github.com/AntonStoeckl/library-entitytable/entitytable"
)

// Option defines a functional option for configuring Db.
type Option func(*Db) error

// WithLogger sets the logger for the Db.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Row counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger entitytable.Logger) Option {
	return func(db *Db) error {
		db.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Db.
// The contextual logger receives the same messages as the plain logger, together with the
// operation's context, so trace and span IDs can be correlated automatically.
func WithContextualLogger(logger entitytable.ContextualLogger) Option {
	return func(db *Db) error {
		db.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Db.
// The collector receives select durations, returned row counts and database errors.
// If it also implements entitytable.ContextualMetricsCollector, the context-aware methods are used.
func WithMetrics(collector entitytable.MetricsCollector) Option {
	return func(db *Db) error {
		db.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Db.
func WithTracing(collector entitytable.TracingCollector) Option {
	return func(db *Db) error {
		db.tracingCollector = collector
		return nil
	}
}
