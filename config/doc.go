// Package config provides PostgreSQL database configuration for the library backend.
//
// The DSNs are read from the environment (LIBRARY_DSN, LIBRARY_REPLICA_DSN), optionally
// populated from a .env file via LoadEnv. Factory functions create connections for each
// supported adapter type (pgx.Pool, sql.DB, sqlx.DB) with the same pool defaults.
package config
