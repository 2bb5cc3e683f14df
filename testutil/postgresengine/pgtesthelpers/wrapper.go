package pgtesthelpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-entitytable/config"
	"github.com/AntonStoeckl/library-entitytable/entitytable"
	"github.com/AntonStoeckl/library-entitytable/entitytable/postgresengine"
)

// Adapter type constants
const (
	EnvAdapterType = "ADAPTER_TYPE"
	TypePGXPool    = "pgxpool"
	TypeSQLDB      = "sqldb"
	TypeSQLX       = "sqlx"
	connectTimeout = 2 * time.Second
)

// Wrapper abstracts over the supported connection types.
type Wrapper interface {
	GetDb() *postgresengine.Db
	// Exec runs a fixture statement without bind parameters.
	Exec(t testing.TB, statement string)
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool *pgxpool.Pool
	db   *postgresengine.Db
}

func (w *PGXPoolWrapper) GetDb() *postgresengine.Db {
	return w.db
}

func (w *PGXPoolWrapper) Exec(t testing.TB, statement string) {
	_, err := w.pool.Exec(context.Background(), statement)
	require.NoError(t, err, "error in arranging test data")
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	sqlDB *sql.DB
	db    *postgresengine.Db
}

func (w *SQLDBWrapper) GetDb() *postgresengine.Db {
	return w.db
}

func (w *SQLDBWrapper) Exec(t testing.TB, statement string) {
	_, err := w.sqlDB.ExecContext(context.Background(), statement)
	require.NoError(t, err, "error in arranging test data")
}

func (w *SQLDBWrapper) Close() {
	_ = w.sqlDB.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	sqlxDB *sqlx.DB
	db     *postgresengine.Db
}

func (w *SQLXWrapper) GetDb() *postgresengine.Db {
	return w.db
}

func (w *SQLXWrapper) Exec(t testing.TB, statement string) {
	_, err := w.sqlxDB.ExecContext(context.Background(), statement)
	require.NoError(t, err, "error in arranging test data")
}

func (w *SQLXWrapper) Close() {
	_ = w.sqlxDB.Close() // ignore error
}

// CreateWrapperWithTestConfig creates the wrapper selected by ADAPTER_TYPE and registers its cleanup.
// The test is skipped if the database cannot be reached.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	dsn := config.PostgresDSN()
	adapterType := strings.ToLower(os.Getenv(EnvAdapterType))

	var wrapper Wrapper

	switch adapterType {
	case TypePGXPool, "":
		poolConfig, err := config.PostgresPGXPoolConfig(dsn)
		require.NoError(t, err)
		poolConfig.MinConns = 0

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			err = pool.Ping(ctx)
		}
		if err != nil {
			t.Skipf("postgres not available: %v", err)
		}

		db, err := postgresengine.NewDbFromPGXPool(pool, options...)
		require.NoError(t, err)
		wrapper = &PGXPoolWrapper{pool: pool, db: db}

	case TypeSQLDB:
		sqlDB, err := config.PostgresSQLDBConfig(ctx, dsn)
		if err != nil {
			t.Skipf("postgres not available: %v", err)
		}

		db, err := postgresengine.NewDbFromSQLDB(sqlDB, options...)
		require.NoError(t, err)
		wrapper = &SQLDBWrapper{sqlDB: sqlDB, db: db}

	case TypeSQLX:
		sqlxDB, err := config.PostgresSQLXConfig(ctx, dsn)
		if err != nil {
			t.Skipf("postgres not available: %v", err)
		}

		db, err := postgresengine.NewDbFromSQLX(sqlxDB, options...)
		require.NoError(t, err)
		wrapper = &SQLXWrapper{sqlxDB: sqlxDB, db: db}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterType))
	}

	t.Cleanup(wrapper.Close)

	return wrapper
}

// CleanUp empties the given tables.
func CleanUp(t testing.TB, wrapper Wrapper, tables ...string) {
	for _, table := range tables {
		wrapper.Exec(t, "TRUNCATE TABLE "+table)
	}
}

var _ entitytable.Db = (*postgresengine.Db)(nil)
