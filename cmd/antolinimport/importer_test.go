package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-entitytable/testutil/observability/testdoubles"
)

type execCall struct {
	sql  string
	args []any
}

type execerSpy struct {
	calls []execCall
	err   error
}

func (s *execerSpy) Exec(_ context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	s.calls = append(s.calls, execCall{sql: sql, args: arguments})
	return pgconn.NewCommandTag("INSERT 0 1"), s.err
}

const antolinCSV = `Autor;Titel;Verlag;ISBN;Aufgenommen;Klasse;Gelesen;ISBN13;ISBN10f;ISBN13f;BuchID
"Ende, Michael";Momo;Thienemann;3522119906;15.03.2004;5;1234;9783522119902;3-522-11990-6;978-3-522-11990-2;10042
Funke, Cornelia;Tintenherz;Dressler;3791504657;01.10.2003;6;987;9783791504650;3-7915-0465-7;978-3-7915-0465-0;10043
Broken;Record;Nobody;123;yesterday;1;0;;;;1
Preußler, Otfried;Krabat;Thienemann;352211850X;20.01.2002;6;4321;97835221185;3-522-11850-X;978-3-522-11850-9;10044
`

func Test_Importer_Import_InsertsInBatchesAndSkipsMalformedRecords(t *testing.T) {
	// setup
	logHandler := testdoubles.NewLogHandlerSpy(false)
	db := &execerSpy{}
	importer, err := NewImporter(db, 2, slog.New(logHandler))
	assert.NoError(t, err)

	// act
	stats, err := importer.Import(context.Background(), strings.NewReader(antolinCSV))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, ImportStats{Imported: 3, Skipped: 1, Batches: 2}, stats)

	if assert.Len(t, db.calls, 2) {
		assert.True(t, strings.HasPrefix(db.calls[0].sql, `INSERT INTO "antolin" ("author", "title", "publisher", "isbn10"`))
		assert.Contains(t, db.calls[0].sql, "$1")
		assert.Contains(t, db.calls[0].args, "Momo")
		assert.Contains(t, db.calls[0].args, "2004-03-15")
		assert.Contains(t, db.calls[1].args, "Krabat")
	}

	assert.True(t, logHandler.HasWarnLogWithMessage(logMsgSkippedRecord).WithAttr(logAttrLine, "4").Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage(logMsgBatchInserted).Assert())
}

func Test_Importer_Import_RejectsEmptyInput(t *testing.T) {
	// arrange
	importer, err := NewImporter(&execerSpy{}, 10, slog.New(testdoubles.NewLogHandlerSpy(false)))
	assert.NoError(t, err)

	// act
	_, err = importer.Import(context.Background(), strings.NewReader(""))

	// assert
	assert.ErrorIs(t, err, ErrEmptyCSV)
}

func Test_Importer_Import_StopsOnDatabaseErrors(t *testing.T) {
	// arrange
	dbErr := errors.New("unique violation")
	db := &execerSpy{err: dbErr}
	importer, err := NewImporter(db, 1, slog.New(testdoubles.NewLogHandlerSpy(false)))
	assert.NoError(t, err)

	// act
	stats, err := importer.Import(context.Background(), strings.NewReader(antolinCSV))

	// assert
	assert.ErrorIs(t, err, dbErr)
	assert.Equal(t, 0, stats.Imported)
	assert.Len(t, db.calls, 1)
}

func Test_BuildInsertQuery_WritesNullForDiscardedISBNs(t *testing.T) {
	// arrange
	row := map[string]any{
		"author": "Ende, Michael", "title": "Momo", "publisher": "Thienemann",
		"isbn10": nil, "isbn10_formatted": nil, "isbn13": "9783522119902", "isbn13_formatted": nil,
		"book_id": "10042", "available_since": "2004-03-15", "grade": "5", "num_read": 1234,
	}

	// act
	sqlQuery, args, err := buildInsertQuery("antolin", []map[string]any{row})

	// assert
	assert.NoError(t, err)
	assert.Contains(t, sqlQuery, "NULL")
	assert.Contains(t, args, "9783522119902")
	assert.NotContains(t, args, nil)
}
