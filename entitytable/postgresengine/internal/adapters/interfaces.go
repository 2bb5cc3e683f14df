package adapters

import "context"

// DBAdapter defines the interface for database operations needed by the Db engine.
type DBAdapter interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	MapScan() (map[string]any, error)
	Err() error
	Close() error
}
