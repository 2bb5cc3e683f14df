package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
	"github.com/AntonStoeckl/library-entitytable/entitytable/postgresengine/internal/adapters"
)

const (
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildCountQueryFailed  = "failed to build count query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgCountRowsFailed        = "failed to count rows"
	logMsgSelectCompleted        = "select completed"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "entitytable operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrRowCount              = "row_count"
	logAttrTotal                 = "total"
	logAttrDurationMS            = "duration_ms"
	logActionSelectRows          = "select rows"
	logActionSelectRow           = "select row"
	logActionCount               = "count"
	dialectPostgres              = "postgres"
	aliasSubquery                = "q"
	colTotal                     = "total"
)

type sqlQueryString = string

// Db is the PostgreSQL implementation of entitytable.Db.
// It is safe for concurrent use once constructed.
type Db struct {
	db               adapters.DBAdapter
	logger           entitytable.Logger
	contextualLogger entitytable.ContextualLogger
	metricsCollector entitytable.MetricsCollector
	tracingCollector entitytable.TracingCollector
}

// NewDbFromPGXPool creates a new Db using a pgx Pool with optional configuration.
func NewDbFromPGXPool(pool *pgxpool.Pool, options ...Option) (*Db, error) {
	if pool == nil {
		return nil, entitytable.ErrNilDatabaseConnection
	}

	return newDb(adapters.NewPGXAdapter(pool), options...)
}

// NewDbFromPGXPoolWithReplica creates a new Db that sends its (read-only) queries to the replica pool.
func NewDbFromPGXPoolWithReplica(pool *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*Db, error) {
	if pool == nil || replica == nil {
		return nil, entitytable.ErrNilDatabaseConnection
	}

	return newDb(adapters.NewPGXAdapterWithReplica(pool, replica), options...)
}

// NewDbFromSQLDB creates a new Db using a sql.DB with optional configuration.
func NewDbFromSQLDB(db *sql.DB, options ...Option) (*Db, error) {
	if db == nil {
		return nil, entitytable.ErrNilDatabaseConnection
	}

	return newDb(adapters.NewSQLAdapter(db), options...)
}

// NewDbFromSQLX creates a new Db using a sqlx.DB with optional configuration.
func NewDbFromSQLX(db *sqlx.DB, options ...Option) (*Db, error) {
	if db == nil {
		return nil, entitytable.ErrNilDatabaseConnection
	}

	return newDb(adapters.NewSQLXAdapter(db), options...)
}

func newDb(adapter adapters.DBAdapter, options ...Option) (*Db, error) {
	db := &Db{db: adapter}

	for _, option := range options {
		if err := option(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// SelectRows runs the query, applying ordering, limit and offset from its options.
// With Options.WithTotal it also counts all matching rows, ignoring limit and offset.
func (db *Db) SelectRows(ctx context.Context, query entitytable.SQLQuery) (entitytable.QueryResult[entitytable.Row], error) {
	ctx, span := db.startSelectSpan(ctx, spanNameSelectRows, operationSelectRows)
	start := time.Now()
	empty := entitytable.QueryResult[entitytable.Row]{}

	sqlQuery, args, buildErr := db.buildSelectQuery(query)
	if buildErr != nil {
		db.logError(ctx, logMsgBuildSelectQueryFailed, buildErr, logAttrQuery, query.SQL)
		db.recordErrorMetrics(ctx, operationSelectRows, errorTypeBuildQuery)
		db.finishSelectSpanError(span, errorTypeBuildQuery, time.Since(start))

		return empty, errors.Join(entitytable.ErrBuildingQueryFailed, buildErr)
	}

	rows, errorType, err := db.queryRows(ctx, sqlQuery, args, logActionSelectRows)
	if err != nil {
		db.recordErrorMetrics(ctx, operationSelectRows, errorType)
		db.finishSelectSpanError(span, errorType, time.Since(start))

		return empty, err
	}

	result := entitytable.QueryResult[entitytable.Row]{Rows: rows}
	logArgs := []any{logAttrRowCount, len(rows)}

	if query.Options.WithTotal {
		total, countErr := db.countRows(ctx, query)
		if countErr != nil {
			db.recordErrorMetrics(ctx, operationSelectRows, errorTypeCountRows)
			db.finishSelectSpanError(span, errorTypeCountRows, time.Since(start))

			return empty, countErr
		}

		result.Total = &total
		logArgs = append(logArgs, logAttrTotal, total)
	}

	duration := time.Since(start)
	db.logOperation(ctx, logMsgSelectCompleted, append(logArgs, logAttrDurationMS, db.toMilliseconds(duration))...)
	db.recordDurationMetrics(ctx, metricSelectDuration, duration, operationSelectRows, statusSuccess)
	db.recordValueMetrics(ctx, metricSelectRows, float64(len(rows)), operationSelectRows, statusSuccess)
	db.finishSelectSpanSuccess(span, len(rows), duration)

	return result, nil
}

// SelectRow runs a query that is expected to match at most one row.
// The second return value reports whether a row was found.
func (db *Db) SelectRow(ctx context.Context, sqlQuery string, params []any) (entitytable.Row, bool, error) {
	ctx, span := db.startSelectSpan(ctx, spanNameSelectRow, operationSelectRow)
	start := time.Now()

	compiled, args, buildErr := db.buildSelectQuery(entitytable.SQLQuery{
		SQL:     sqlQuery,
		Params:  params,
		Options: entitytable.QueryOptions{Limit: 1},
	})
	if buildErr != nil {
		db.logError(ctx, logMsgBuildSelectQueryFailed, buildErr, logAttrQuery, sqlQuery)
		db.recordErrorMetrics(ctx, operationSelectRow, errorTypeBuildQuery)
		db.finishSelectSpanError(span, errorTypeBuildQuery, time.Since(start))

		return nil, false, errors.Join(entitytable.ErrBuildingQueryFailed, buildErr)
	}

	rows, errorType, err := db.queryRows(ctx, compiled, args, logActionSelectRow)
	if err != nil {
		db.recordErrorMetrics(ctx, operationSelectRow, errorType)
		db.finishSelectSpanError(span, errorType, time.Since(start))

		return nil, false, err
	}

	duration := time.Since(start)
	db.logOperation(ctx, logMsgSelectCompleted, logAttrRowCount, len(rows), logAttrDurationMS, db.toMilliseconds(duration))
	db.recordDurationMetrics(ctx, metricSelectDuration, duration, operationSelectRow, statusSuccess)
	db.recordValueMetrics(ctx, metricSelectRows, float64(len(rows)), operationSelectRow, statusSuccess)
	db.finishSelectSpanSuccess(span, len(rows), duration)

	if len(rows) == 0 {
		return nil, false, nil
	}

	return rows[0], true, nil
}

// queryRows executes the compiled query and collects all rows.
// On failure it returns the error type label used for metrics and spans.
func (db *Db) queryRows(
	ctx context.Context,
	sqlQuery sqlQueryString,
	args []any,
	action string,
) ([]entitytable.Row, string, error) {
	queryStart := time.Now()

	rows, queryErr := db.db.Query(ctx, sqlQuery, args...)
	if queryErr != nil {
		db.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errorTypeDatabaseQuery, errors.Join(entitytable.ErrSelectingRowsFailed, queryErr)
	}
	defer db.closeRows(ctx, rows)

	db.logQueryWithDuration(ctx, sqlQuery, action, time.Since(queryStart))

	result := make([]entitytable.Row, 0)

	for rows.Next() {
		row, scanErr := rows.MapScan()
		if scanErr != nil {
			db.logError(ctx, logMsgScanRowFailed, scanErr, logAttrQuery, sqlQuery)
			return nil, errorTypeRowScan, errors.Join(entitytable.ErrScanningDBRowFailed, scanErr)
		}

		result = append(result, row)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		db.logError(ctx, logMsgDBQueryFailed, rowsErr, logAttrQuery, sqlQuery)
		return nil, errorTypeDatabaseQuery, errors.Join(entitytable.ErrSelectingRowsFailed, rowsErr)
	}

	return result, "", nil
}

func (db *Db) countRows(ctx context.Context, query entitytable.SQLQuery) (int64, error) {
	sqlQuery, args, buildErr := db.buildCountQuery(query)
	if buildErr != nil {
		db.logError(ctx, logMsgBuildCountQueryFailed, buildErr, logAttrQuery, query.SQL)
		return 0, errors.Join(entitytable.ErrCountingRowsFailed, entitytable.ErrBuildingQueryFailed, buildErr)
	}

	rows, _, err := db.queryRows(ctx, sqlQuery, args, logActionCount)
	if err != nil {
		return 0, errors.Join(entitytable.ErrCountingRowsFailed, err)
	}

	if len(rows) != 1 {
		err = fmt.Errorf("expected exactly one count row, got %d", len(rows))
		db.logError(ctx, logMsgCountRowsFailed, err, logAttrQuery, sqlQuery)

		return 0, errors.Join(entitytable.ErrCountingRowsFailed, err)
	}

	total, convErr := toInt64(rows[0][colTotal])
	if convErr != nil {
		db.logError(ctx, logMsgCountRowsFailed, convErr, logAttrQuery, sqlQuery)
		return 0, errors.Join(entitytable.ErrCountingRowsFailed, convErr)
	}

	return total, nil
}

// closeRows closes database rows and logs any errors.
func (db *Db) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		db.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// buildSelectQuery wraps the table-level query as a subquery so that ordering and
// pagination can be applied and '?' placeholders are rewritten to '$n'.
func (db *Db) buildSelectQuery(query entitytable.SQLQuery) (sqlQueryString, []any, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(db.subquery(query)).
		Prepared(true)

	for _, orderBy := range query.Options.OrderBy {
		selectStmt = selectStmt.OrderAppend(orderExpression(orderBy))
	}

	if query.Options.Limit > 0 {
		selectStmt = selectStmt.Limit(uint(query.Options.Limit))
	}

	if query.Options.Offset > 0 {
		selectStmt = selectStmt.Offset(uint(query.Options.Offset))
	}

	return selectStmt.ToSQL()
}

// buildCountQuery counts all rows of the table-level query, ignoring ordering and pagination.
func (db *Db) buildCountQuery(query entitytable.SQLQuery) (sqlQueryString, []any, error) {
	countStmt := goqu.Dialect(dialectPostgres).
		From(db.subquery(query)).
		Select(goqu.COUNT(goqu.Star()).As(colTotal)).
		Prepared(true)

	return countStmt.ToSQL()
}

func (db *Db) subquery(query entitytable.SQLQuery) exp.AliasedExpression {
	return goqu.L("("+query.SQL+")", query.Params...).As(aliasSubquery)
}

func orderExpression(orderBy entitytable.OrderBy) exp.OrderedExpression {
	if orderBy.Descending {
		return goqu.I(orderBy.Column).Desc()
	}

	return goqu.I(orderBy.Column).Asc()
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("unexpected count value of type %T", value)
	}
}
