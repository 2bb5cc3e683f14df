package entitytable

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	identityColumn         = "id"
	decoderTagName         = "db"
	logMsgDroppedFields    = "entitytable: filter fields unknown to table were dropped"
	logAttrTable           = "table"
	logAttrDroppedFields   = "dropped_fields"
	logAttrDroppedFieldCnt = "dropped_field_count"
)

// EntityConfig is the static mapping definition of one entity type.
type EntityConfig struct {
	Name       string
	TableName  string
	NaturalKey string
	Columns    []ColumnConfig
}

// DroppedFieldsHook is notified whenever filter fields unknown to a table are dropped.
type DroppedFieldsHook func(table string, fields []string)

// Option defines a functional option for configuring an EntityTable.
type Option func(*tableSettings) error

type tableSettings struct {
	logger            Logger
	droppedFieldsHook DroppedFieldsHook
}

// WithLogger sets a logger which receives a warning whenever filter fields are dropped.
func WithLogger(logger Logger) Option {
	return func(s *tableSettings) error {
		s.logger = logger
		return nil
	}
}

// WithDroppedFieldsHook sets a hook which receives the names of dropped filter fields.
// Dropping stays silent for the query itself; the hook only makes it observable.
func WithDroppedFieldsHook(hook DroppedFieldsHook) Option {
	return func(s *tableSettings) error {
		s.droppedFieldsHook = hook
		return nil
	}
}

// EntityTable is the compiled mapping for one entity type T.
// It holds no mutable state after construction and is safe for concurrent use.
type EntityTable[T any] struct {
	name          string
	tableName     string
	naturalKey    string
	columns       []Column
	columnsByName map[string]Column
	decode        func(Row) (T, error)
	settings      tableSettings
}

// NewEntityTable builds an EntityTable which decodes rows into T using mapstructure with `db` tags.
func NewEntityTable[T any](config EntityConfig, options ...Option) (*EntityTable[T], error) {
	return NewEntityTableWithDecoder[T](config, decodeWithMapstructure[T], options...)
}

// NewEntityTableWithDecoder builds an EntityTable which decodes mapped rows with decode.
func NewEntityTableWithDecoder[T any](
	config EntityConfig,
	decode func(Row) (T, error),
	options ...Option,
) (*EntityTable[T], error) {

	if config.Name == "" {
		return nil, ErrEmptyEntityName
	}

	table := &EntityTable[T]{
		name:          config.Name,
		tableName:     config.TableName,
		naturalKey:    config.NaturalKey,
		columns:       make([]Column, 0, len(config.Columns)),
		columnsByName: make(map[string]Column, len(config.Columns)),
		decode:        decode,
	}

	if table.tableName == "" {
		table.tableName = config.Name
	}

	for _, columnConfig := range config.Columns {
		if columnConfig.Name == "" {
			return nil, &ColumnConfigError{Entity: config.Name, Column: columnConfig.Name, cause: ErrEmptyColumnName}
		}

		if _, exists := table.columnsByName[columnConfig.Name]; exists {
			return nil, &ColumnConfigError{Entity: config.Name, Column: columnConfig.Name, cause: ErrDuplicateColumnName}
		}

		column := newColumn(columnConfig)
		table.columns = append(table.columns, column)
		table.columnsByName[column.Name()] = column
	}

	for _, option := range options {
		if err := option(&table.settings); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// MustNewEntityTable is like NewEntityTable but panics on an invalid configuration.
// It is meant for package-level table definitions built at startup.
func MustNewEntityTable[T any](config EntityConfig, options ...Option) *EntityTable[T] {
	table, err := NewEntityTable[T](config, options...)
	if err != nil {
		panic(err)
	}

	return table
}

func decodeWithMapstructure[T any](row Row) (T, error) {
	var entity T

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          decoderTagName,
		WeaklyTypedInput: true,
		Result:           &entity,
	})
	if err != nil {
		return entity, err
	}

	if err = decoder.Decode(row); err != nil {
		return entity, err
	}

	return entity, nil
}

func (t *EntityTable[T]) Name() string {
	return t.name
}

func (t *EntityTable[T]) TableName() string {
	return t.tableName
}

func (t *EntityTable[T]) NaturalKey() string {
	return t.naturalKey
}

// Columns returns the columns in configuration order.
func (t *EntityTable[T]) Columns() []Column {
	columns := make([]Column, len(t.columns))
	copy(columns, t.columns)

	return columns
}

// Column looks up a column by its storage name.
func (t *EntityTable[T]) Column(name string) (Column, bool) {
	column, ok := t.columnsByName[name]
	return column, ok
}

// GetFields returns the externally exposable column configurations, in configuration order.
// Internal columns and the identity column are excluded.
func (t *EntityTable[T]) GetFields() []ColumnConfig {
	fields := make([]ColumnConfig, 0, len(t.columns))

	for _, column := range t.columns {
		if column.Internal() || column.Name() == identityColumn {
			continue
		}

		fields = append(fields, column.Config())
	}

	return fields
}

// MapRow returns a copy of row with every configured FromDB transform applied.
// Columns missing from row stay missing.
func (t *EntityTable[T]) MapRow(row Row) (Row, error) {
	return t.mapRow(row, func(d *Domain) func(any) (any, error) { return d.FromDB })
}

// ToDBRow returns a copy of row with every configured ToDB transform applied.
func (t *EntityTable[T]) ToDBRow(row Row) (Row, error) {
	return t.mapRow(row, func(d *Domain) func(any) (any, error) { return d.ToDB })
}

func (t *EntityTable[T]) mapRow(row Row, pick func(*Domain) func(any) (any, error)) (Row, error) {
	mapped := make(Row, len(row))
	for key, value := range row {
		mapped[key] = value
	}

	for _, column := range t.columns {
		if column.Domain() == nil {
			continue
		}

		transform := pick(column.Domain())
		if transform == nil {
			continue
		}

		raw, ok := row[column.Name()]
		if !ok {
			continue
		}

		value, err := transform(raw)
		if err != nil {
			return nil, errors.Join(ErrMappingRowFailed, fmt.Errorf("%s.%s: %w", t.name, column.Name(), err))
		}

		mapped[column.Name()] = value
	}

	return mapped, nil
}

// FromDB maps row through the column transforms and decodes it into a new T.
func (t *EntityTable[T]) FromDB(row Row) (T, error) {
	var empty T

	mapped, err := t.MapRow(row)
	if err != nil {
		return empty, err
	}

	entity, err := t.decode(mapped)
	if err != nil {
		return empty, errors.Join(ErrDecodingEntityFailed, err)
	}

	return entity, nil
}

// SQLTerm compiles one field filter. It returns false if the field is unknown to this table.
func (t *EntityTable[T]) SQLTerm(field string, value any) (SQLTerm, bool) {
	column, ok := t.columnsByName[field]
	if !ok {
		return SQLTerm{}, false
	}

	switch column.QueryOp() {
	case Contains:
		return SQLTerm{Field: field, Op: OpLike, Value: likeWildcard + fmt.Sprint(value) + likeWildcard}, true
	case StartsWith:
		return SQLTerm{Field: field, Op: OpLike, Value: fmt.Sprint(value) + likeWildcard}, true
	case EndsWith:
		return SQLTerm{Field: field, Op: OpLike, Value: likeWildcard + fmt.Sprint(value)}, true
	default:
		return SQLTerm{Field: field, Op: OpEq, Value: value}, true
	}
}

// SQLTerms compiles all field filters in their given order, eliding unknown fields.
func (t *EntityTable[T]) SQLTerms(fields Fields) []SQLTerm {
	terms := make([]SQLTerm, 0, fields.Len())
	dropped := make([]string, 0)

	for _, entry := range fields.Entries() {
		term, ok := t.SQLTerm(entry.Name, entry.Value)
		if !ok {
			dropped = append(dropped, entry.Name)
			continue
		}

		terms = append(terms, term)
	}

	if len(dropped) > 0 {
		t.reportDroppedFields(dropped)
	}

	return terms
}

// DroppedFields returns the names in fields which this table does not know, in their given order.
func (t *EntityTable[T]) DroppedFields(fields Fields) []string {
	dropped := make([]string, 0)

	for _, entry := range fields.Entries() {
		if _, ok := t.columnsByName[entry.Name]; !ok {
			dropped = append(dropped, entry.Name)
		}
	}

	return dropped
}

// SQLWhereFields renders the field filters joined by op. Each term is rendered as
// "<prefix><field> <comparison> ?".
func (t *EntityTable[T]) SQLWhereFields(fields Fields, op LogicalOp, prefix string) SQLWhere {
	terms := t.SQLTerms(fields)

	rendered := make([]string, 0, len(terms))
	params := make([]any, 0, len(terms))

	for _, term := range terms {
		rendered = append(rendered, renderTerm(term, prefix))
		params = append(params, term.Value)
	}

	return SQLWhere{Where: strings.Join(rendered, joinOp(op)), Params: params}
}

// SQLWhere renders the complete WHERE clause of query, including the "where" keyword.
//
// The field group and the caller-supplied raw fragment are always conjoined with AND,
// whatever op the field group uses. Field group params come first.
func (t *EntityTable[T]) SQLWhere(query EntityQuery, prefix string) SQLWhere {
	fieldGroup := t.SQLWhereFields(query.Fields, query.Op, prefix)

	raw := SQLWhere{}
	if query.SQLWhere != nil {
		raw = *query.SQLWhere
	}

	params := make([]any, 0, len(fieldGroup.Params)+len(raw.Params))

	switch {
	case !fieldGroup.IsEmpty() && !raw.IsEmpty():
		params = append(params, fieldGroup.Params...)
		params = append(params, raw.Params...)

		return SQLWhere{
			Where:  keywordWhere + parenthesize(fieldGroup.Where) + keywordAnd + parenthesize(raw.Where),
			Params: params,
		}

	case !fieldGroup.IsEmpty():
		return SQLWhere{Where: keywordWhere + fieldGroup.Where, Params: append(params, fieldGroup.Params...)}

	case !raw.IsEmpty():
		return SQLWhere{Where: keywordWhere + raw.Where, Params: append(params, raw.Params...)}

	default:
		return SQLWhere{Where: "", Params: params}
	}
}

// ToSQLQuery builds the final select statement. An empty selector selects all columns of the table.
//
// The WHERE clause is only computed when query.Fields is present. With absent Fields the
// statement has no WHERE clause at all, the raw fragment included.
func (t *EntityTable[T]) ToSQLQuery(query EntityQuery, selector string) SQLQuery {
	if selector == "" {
		selector = selectAllFrom + t.tableName
	}

	sqlQuery := SQLQuery{
		SQL:     keywordSelect + selector,
		Params:  make([]any, 0),
		Options: query.Options,
	}

	if !query.Fields.IsPresent() {
		return sqlQuery
	}

	where := t.SQLWhere(query, "")
	if !where.IsEmpty() {
		sqlQuery.SQL += " " + where.Where
		sqlQuery.Params = where.Params
	}

	return sqlQuery
}

// List executes query via db and maps every returned row into T. Result metadata is preserved.
// Errors from db are returned unchanged.
func (t *EntityTable[T]) List(ctx context.Context, db Db, query EntityQuery) (QueryResult[T], error) {
	result, err := db.SelectRows(ctx, t.ToSQLQuery(query, ""))
	if err != nil {
		return QueryResult[T]{}, err
	}

	return MapQueryResult(result, t.FromDB)
}

// Find executes query via db expecting at most one row. No row is reported as false, not as an error.
func (t *EntityTable[T]) Find(ctx context.Context, db Db, query EntityQuery) (T, bool, error) {
	var empty T

	sqlQuery := t.ToSQLQuery(query, "")

	row, found, err := db.SelectRow(ctx, sqlQuery.SQL, sqlQuery.Params)
	if err != nil {
		return empty, false, err
	}

	if !found {
		return empty, false, nil
	}

	entity, err := t.FromDB(row)
	if err != nil {
		return empty, false, err
	}

	return entity, true, nil
}

func (t *EntityTable[T]) reportDroppedFields(dropped []string) {
	if t.settings.logger != nil {
		t.settings.logger.Warn(
			logMsgDroppedFields,
			logAttrTable, t.tableName,
			logAttrDroppedFields, strings.Join(dropped, ","),
			logAttrDroppedFieldCnt, len(dropped),
		)
	}

	if t.settings.droppedFieldsHook != nil {
		t.settings.droppedFieldsHook(t.tableName, dropped)
	}
}
