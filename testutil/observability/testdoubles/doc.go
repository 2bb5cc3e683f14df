// Package testdoubles provides test doubles (spies) for the entitytable observability interfaces.
//
// This package contains spy implementations used by the postgres Db engine:
//   - LogHandlerSpy: captures slog handler calls and attributes
//   - MetricsCollectorSpy: captures metrics recording calls for verification
//   - TracingCollectorSpy: captures tracing spans and their attributes
//
// These test doubles enable testing of observability instrumentation
// without requiring actual telemetry backends.
package testdoubles
