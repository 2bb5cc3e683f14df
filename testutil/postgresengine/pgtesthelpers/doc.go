// Package pgtesthelpers provides test utilities for running entitytable queries against PostgreSQL
// with multi-adapter support.
//
// Tests obtain a Wrapper through CreateWrapperWithTestConfig. The adapter (pgx.Pool, sql.DB or sqlx.DB)
// is selected by the ADAPTER_TYPE environment variable, so the same integration tests can be run
// against every supported driver. Tests are skipped when the database configured via LIBRARY_DSN
// is not reachable.
//
// Environment Variables:
//
//	ADAPTER_TYPE: selects adapter (pgxpool, sqldb, sqlx); default pgxpool
//	LIBRARY_DSN:  PostgreSQL DSN of the test database
package pgtesthelpers
