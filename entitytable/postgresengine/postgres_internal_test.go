package postgresengine

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
	"github.com/AntonStoeckl/library-entitytable/entitytable/postgresengine/internal/adapters"
	"github.com/AntonStoeckl/library-entitytable/testutil/observability/testdoubles"
)

type recordedQuery struct {
	sql  string
	args []any
}

// adapterStub hands out one prepared result set per Query call, in call order.
type adapterStub struct {
	results  [][]map[string]any
	queryErr error
	scanErr  error
	queries  []recordedQuery
}

func (s *adapterStub) Query(_ context.Context, query string, args ...any) (adapters.DBRows, error) {
	s.queries = append(s.queries, recordedQuery{sql: query, args: args})

	if s.queryErr != nil {
		return nil, s.queryErr
	}

	var rows []map[string]any
	if len(s.results) > 0 {
		rows = s.results[0]
		s.results = s.results[1:]
	}

	return &rowsStub{rows: rows, scanErr: s.scanErr}, nil
}

type rowsStub struct {
	rows    []map[string]any
	pos     int
	scanErr error
}

func (r *rowsStub) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++

	return true
}

func (r *rowsStub) MapScan() (map[string]any, error) {
	if r.scanErr != nil {
		return nil, r.scanErr
	}

	return r.rows[r.pos-1], nil
}

func (r *rowsStub) Err() error   { return nil }
func (r *rowsStub) Close() error { return nil }

func itemsQuery() entitytable.SQLQuery {
	return entitytable.SQLQuery{
		SQL:    "select * from items where title like ? or author like ?",
		Params: []any{"%cat%", "%cat%"},
	}
}

func Test_BuildSelectQuery_RewritesPlaceholdersAndWrapsQuery(t *testing.T) {
	// arrange
	db := &Db{}

	// act
	sqlQuery, args, err := db.buildSelectQuery(itemsQuery())

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, `FROM (select * from items where title like $1 or author like $2) AS "q"`)
	assert.NotContains(t, sqlQuery, "?")
	assert.NotContains(t, sqlQuery, "LIMIT")
	assert.NotContains(t, sqlQuery, "ORDER BY")
	assert.Equal(t, []any{"%cat%", "%cat%"}, args)
}

func Test_BuildSelectQuery_AppliesOrderingAndPagination(t *testing.T) {
	// arrange
	db := &Db{}
	query := itemsQuery()
	query.Options = entitytable.QueryOptions{
		Limit:  10,
		Offset: 20,
		OrderBy: []entitytable.OrderBy{
			{Column: "title", Descending: true},
			{Column: "author"},
		},
	}

	// act
	sqlQuery, args, err := db.buildSelectQuery(query)

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, `ORDER BY "title" DESC, "author" ASC`)
	assert.Contains(t, sqlQuery, "LIMIT $3")
	assert.Contains(t, sqlQuery, "OFFSET $4")
	assert.Len(t, args, 4)
	assert.Equal(t, "%cat%", args[0])
}

func Test_BuildCountQuery_CountsTheWrappedQuery(t *testing.T) {
	// arrange
	db := &Db{}
	query := itemsQuery()
	query.Options = entitytable.QueryOptions{Limit: 10, OrderBy: []entitytable.OrderBy{{Column: "title"}}}

	// act
	sqlQuery, args, err := db.buildCountQuery(query)

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, `SELECT COUNT(*) AS "total" FROM (select * from items`)
	assert.NotContains(t, sqlQuery, "LIMIT")
	assert.NotContains(t, sqlQuery, "ORDER BY")
	assert.Equal(t, []any{"%cat%", "%cat%"}, args)
}

func Test_SelectRows_ReturnsRowsAndReportsObservability(t *testing.T) {
	// setup
	logHandler := testdoubles.NewLogHandlerSpy(false)
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	stub := &adapterStub{results: [][]map[string]any{{
		{"id": "1", "title": "The Cat in the Hat"},
		{"id": "2", "title": "Catch-22"},
	}}}

	db, err := newDb(stub,
		WithLogger(slog.New(logHandler)),
		WithMetrics(metrics),
		WithTracing(tracing),
	)
	assert.NoError(t, err)

	// act
	result, err := db.SelectRows(context.Background(), itemsQuery())

	// assert
	assert.NoError(t, err)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, "Catch-22", result.Rows[1]["title"])
	assert.Nil(t, result.Total)
	assert.Len(t, stub.queries, 1)

	assert.True(t, logHandler.HasDebugLogWithMessage(logMsgSQLExecuted+logActionSelectRows).WithDurationMS().Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage(logMsgOperation+logMsgSelectCompleted).WithRowCount().Assert())

	assert.True(t, metrics.HasDurationRecordForMetric(metricSelectDuration))
	assert.True(t, metrics.HasValueRecordForMetric(metricSelectRows))
	assert.False(t, metrics.HasCounterRecordForMetric(metricDatabaseErrors))

	span, found := tracing.FindSpanByName(spanNameSelectRows)
	assert.True(t, found)
	assert.Equal(t, statusSuccess, span.Status)
	assert.Equal(t, "2", span.EndAttributes[spanAttrRowCount])
}

func Test_SelectRows_WithTotal_RunsCountQuery(t *testing.T) {
	// arrange
	stub := &adapterStub{results: [][]map[string]any{
		{{"id": "1"}},
		{{"total": int64(7)}},
	}}
	db, err := newDb(stub)
	assert.NoError(t, err)

	query := itemsQuery()
	query.Options = entitytable.QueryOptions{Limit: 1, WithTotal: true}

	// act
	result, err := db.SelectRows(context.Background(), query)

	// assert
	assert.NoError(t, err)
	assert.Len(t, result.Rows, 1)
	if assert.NotNil(t, result.Total) {
		assert.Equal(t, int64(7), *result.Total)
	}
	assert.Len(t, stub.queries, 2)
	assert.Contains(t, stub.queries[1].sql, "COUNT(*)")
}

func Test_SelectRows_WithTotal_FailsOnMalformedCountRow(t *testing.T) {
	// arrange
	stub := &adapterStub{results: [][]map[string]any{
		{{"id": "1"}},
		{{"total": "seven"}},
	}}
	db, _ := newDb(stub)

	query := itemsQuery()
	query.Options = entitytable.QueryOptions{WithTotal: true}

	// act
	result, err := db.SelectRows(context.Background(), query)

	// assert
	assert.ErrorIs(t, err, entitytable.ErrCountingRowsFailed)
	assert.Empty(t, result.Rows)
}

func Test_SelectRows_PropagatesDatabaseErrors(t *testing.T) {
	// setup
	driverErr := errors.New("connection refused")
	logHandler := testdoubles.NewLogHandlerSpy(false)
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()

	db, _ := newDb(&adapterStub{queryErr: driverErr},
		WithLogger(slog.New(logHandler)),
		WithMetrics(metrics),
		WithTracing(tracing),
	)

	// act
	_, err := db.SelectRows(context.Background(), itemsQuery())

	// assert
	assert.ErrorIs(t, err, entitytable.ErrSelectingRowsFailed)
	assert.ErrorIs(t, err, driverErr)
	assert.True(t, logHandler.HasErrorLogWithMessage(logMsgDBQueryFailed).WithAttr(logAttrError, driverErr.Error()).Assert())
	assert.True(t, metrics.HasCounterRecordForMetric(metricDatabaseErrors))

	span, found := tracing.FindSpanByName(spanNameSelectRows)
	assert.True(t, found)
	assert.Equal(t, statusError, span.Status)
	assert.Equal(t, errorTypeDatabaseQuery, span.EndAttributes[spanAttrErrorType])
}

func Test_SelectRows_PropagatesScanErrors(t *testing.T) {
	// arrange
	scanErr := errors.New("cannot scan")
	db, _ := newDb(&adapterStub{
		results: [][]map[string]any{{{"id": "1"}}},
		scanErr: scanErr,
	})

	// act
	_, err := db.SelectRows(context.Background(), itemsQuery())

	// assert
	assert.ErrorIs(t, err, entitytable.ErrScanningDBRowFailed)
	assert.ErrorIs(t, err, scanErr)
}

func Test_SelectRow(t *testing.T) {
	tests := []struct {
		name      string
		results   [][]map[string]any
		wantFound bool
	}{
		{name: "found", results: [][]map[string]any{{{"id": "1", "title": "Momo"}}}, wantFound: true},
		{name: "absent", results: [][]map[string]any{{}}, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			stub := &adapterStub{results: tt.results}
			db, _ := newDb(stub)

			// act
			row, found, err := db.SelectRow(context.Background(), "select * from items where id = ?", []any{"1"})

			// assert
			assert.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, "Momo", row["title"])
			} else {
				assert.Nil(t, row)
			}
			assert.Contains(t, stub.queries[0].sql, "id = $1")
			assert.Contains(t, stub.queries[0].sql, "LIMIT $2")
		})
	}
}

func Test_SelectRow_LogsToContextualLogger(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy(true)
	db, _ := newDb(&adapterStub{}, WithContextualLogger(logger))

	// act
	_, _, err := db.SelectRow(context.Background(), "select * from patrons where email = ?", []any{"a@b.c"})

	// assert
	assert.NoError(t, err)
	assert.True(t, logger.HasDebugLog(logMsgSQLExecuted+logActionSelectRow))
	record, found := logger.Find(testdoubles.LevelInfo, logMsgOperation+logMsgSelectCompleted)
	assert.True(t, found)
	rowCount, _ := record.Attr(logAttrRowCount)
	assert.Equal(t, "0", rowCount)
}

func Test_Constructors_RejectNilConnections(t *testing.T) {
	_, err := NewDbFromPGXPool(nil)
	assert.ErrorIs(t, err, entitytable.ErrNilDatabaseConnection)

	_, err = NewDbFromPGXPoolWithReplica(nil, nil)
	assert.ErrorIs(t, err, entitytable.ErrNilDatabaseConnection)

	_, err = NewDbFromSQLDB(nil)
	assert.ErrorIs(t, err, entitytable.ErrNilDatabaseConnection)

	_, err = NewDbFromSQLX(nil)
	assert.ErrorIs(t, err, entitytable.ErrNilDatabaseConnection)
}

func Test_NewDb_ReturnsOptionErrors(t *testing.T) {
	// arrange
	optionErr := errors.New("bad option")

	// act
	db, err := newDb(&adapterStub{}, func(*Db) error { return optionErr })

	// assert
	assert.ErrorIs(t, err, optionErr)
	assert.Nil(t, db)
}
