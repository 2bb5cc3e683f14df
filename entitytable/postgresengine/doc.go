// Package postgresengine provides a PostgreSQL implementation of the entitytable.Db capability.
//
// This package supports multiple database adapters (pgx.Pool, sql.DB, sqlx.DB) through
// a common interface. Queries produced by entitytable.EntityTable carry '?' placeholders;
// the engine compiles them with goqu's postgres dialect into '$n' form and applies the
// query options (ordering, limit, offset, total count) by wrapping the query as a subquery.
//
// Observability is optional and configured through functional options:
//
//	db, err := postgresengine.NewDbFromPGXPool(pool,
//		postgresengine.WithLogger(slog.Default()),
//		postgresengine.WithMetrics(metricsCollector),
//		postgresengine.WithTracing(tracingCollector),
//	)
//
// Raw SQL fragments handed to the engine must not contain literal question marks,
// since every '?' is treated as a placeholder.
package postgresengine
