package entitytable

import (
	"context"
)

// Row is one raw database row keyed by column name.
type Row = map[string]any

// Db is the capability that executes compiled queries against the relational store.
// Implementations own connections, pooling and cancellation; EntityTable only calls these two methods.
type Db interface {
	// SelectRows executes the query, applying query.Options, and returns all rows plus metadata.
	SelectRows(ctx context.Context, query SQLQuery) (QueryResult[Row], error)

	// SelectRow executes sql and returns the first row, or false if there is none.
	SelectRow(ctx context.Context, sql string, params []any) (Row, bool, error)
}
