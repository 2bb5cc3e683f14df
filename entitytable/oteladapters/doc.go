// Package oteladapters provides OpenTelemetry implementations of the entitytable observability interfaces.
//
// It lives in its own module so that users of entitytable who do not use OpenTelemetry
// do not pull in its dependencies. Wire the adapters into the PostgreSQL engine like this:
//
//	db, err := postgresengine.NewDbFromPGXPool(pool,
//		postgresengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("library")),
//		postgresengine.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("library"))),
//		postgresengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("library"))),
//	)
package oteladapters
