// Package adapters provide database adapter implementations for the PostgreSQL Db engine.
//
// This package implements the adapter pattern to support multiple PostgreSQL database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface and hand rows out as column-name keyed maps, so the engine
// works the same with any supported connection type.
package adapters
