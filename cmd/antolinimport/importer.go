package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
	"github.com/AntonStoeckl/library-entitytable/library"
)

const (
	dialectPostgres      = "postgres"
	csvSeparator         = ';'
	logMsgSkippedRecord  = "skipped malformed antolin record"
	logMsgBatchInserted  = "antolin batch inserted"
	logAttrLine          = "line"
	logAttrError         = "error"
	logAttrBatchSize     = "batch_size"
	logAttrImportedSoFar = "imported"
	defaultBatchSize     = 500
	errMsgReadingCSV     = "reading antolin csv"
)

var ErrEmptyCSV = errors.New("antolin csv has no header row")

// execer is satisfied by *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// ImportStats summarizes one import run.
type ImportStats struct {
	Imported int
	Skipped  int
	Batches  int
}

// Importer loads the Antolin title list into the antolin table in batches.
type Importer struct {
	db        execer
	table     *entitytable.EntityTable[library.AntolinTitle]
	batchSize int
	logger    *slog.Logger
}

func NewImporter(db execer, batchSize int, logger *slog.Logger) (*Importer, error) {
	table, err := entitytable.NewEntityTable[library.AntolinTitle](library.AntolinConfig, entitytable.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &Importer{db: db, table: table, batchSize: batchSize, logger: logger}, nil
}

// Import reads the semicolon separated export from r. The header row is dropped and
// malformed records are logged and skipped.
func (i *Importer) Import(ctx context.Context, r io.Reader) (ImportStats, error) {
	reader := csv.NewReader(r)
	reader.Comma = csvSeparator
	reader.FieldsPerRecord = -1

	var stats ImportStats

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return stats, ErrEmptyCSV
		}

		return stats, fmt.Errorf("%s: %w", errMsgReadingCSV, err)
	}

	batch := make([]entitytable.Row, 0, i.batchSize)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("%s: %w", errMsgReadingCSV, err)
		}

		line, _ := reader.FieldPos(0)

		title, err := library.ParseAntolinRecord(record)
		if err != nil {
			i.logger.Warn(logMsgSkippedRecord, logAttrLine, line, logAttrError, err.Error())
			stats.Skipped++
			continue
		}

		row, err := i.table.ToDBRow(title.Row())
		if err != nil {
			i.logger.Warn(logMsgSkippedRecord, logAttrLine, line, logAttrError, err.Error())
			stats.Skipped++
			continue
		}

		batch = append(batch, row)

		if len(batch) == i.batchSize {
			if err = i.insert(ctx, batch, &stats); err != nil {
				return stats, err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := i.insert(ctx, batch, &stats); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

func (i *Importer) insert(ctx context.Context, batch []entitytable.Row, stats *ImportStats) error {
	sqlQuery, args, err := buildInsertQuery(i.table.TableName(), batch)
	if err != nil {
		return errors.Join(entitytable.ErrBuildingQueryFailed, err)
	}

	if _, err = i.db.Exec(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("inserting antolin batch %d: %w", stats.Batches+1, err)
	}

	stats.Batches++
	stats.Imported += len(batch)
	i.logger.Info(logMsgBatchInserted, logAttrBatchSize, len(batch), logAttrImportedSoFar, stats.Imported)

	return nil
}

func buildInsertQuery(tableName string, batch []entitytable.Row) (string, []any, error) {
	columns := library.AntolinColumns()

	cols := make([]any, 0, len(columns))
	for _, column := range columns {
		cols = append(cols, column)
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(tableName).
		Cols(cols...).
		Prepared(true)

	for _, row := range batch {
		vals := make([]any, 0, len(columns))
		for _, column := range columns {
			vals = append(vals, row[column])
		}
		insertStmt = insertStmt.Vals(vals)
	}

	return insertStmt.ToSQL()
}
