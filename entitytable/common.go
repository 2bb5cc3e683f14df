package entitytable

import (
	"errors"
	"fmt"
)

var ErrEmptyEntityName = errors.New("empty entity name supplied")
var ErrEmptyColumnName = errors.New("empty column name supplied")
var ErrDuplicateColumnName = errors.New("duplicate column name supplied")
var ErrMappingRowFailed = errors.New("mapping database row failed")
var ErrDecodingEntityFailed = errors.New("decoding entity from database row failed")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrSelectingRowsFailed = errors.New("selecting rows failed")
var ErrScanningDBRowFailed = errors.New("scanning db row failed")
var ErrCountingRowsFailed = errors.New("counting rows failed")

// ColumnConfigError reports an invalid column configuration detected while building an EntityTable.
type ColumnConfigError struct {
	Entity string
	Column string
	cause  error
}

func (e *ColumnConfigError) Error() string {
	return fmt.Sprintf("entity %q: column %q: %s", e.Entity, e.Column, e.cause)
}

func (e *ColumnConfigError) Is(target error) bool {
	return target == e.cause
}

func (e *ColumnConfigError) Unwrap() error {
	return e.cause
}
