package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
)

const (
	adapterPGX  = "pgx"
	adapterSQL  = "sql"
	adapterSQLX = "sqlx"
)

var (
	ErrMissingEntity    = errors.New("missing -entity")
	ErrMalformedFilter  = errors.New("filter must have the form field=value")
	ErrUnknownLogicalOp = errors.New("logical operator must be 'and' or 'or'")
	ErrUnknownAdapter   = errors.New("adapter must be one of pgx, sql, sqlx")
)

// Config holds the command-line configuration of the librarian CLI.
type Config struct {
	Entity     string
	Filters    []entitytable.FieldValue
	Op         entitytable.LogicalOp
	Where      string
	Options    entitytable.QueryOptions
	Find       bool
	ListFields bool
	Adapter    string
	EnvFile    string
	Debug      bool
}

// filterFlags collects repeated -f field=value flags in their given order.
type filterFlags []entitytable.FieldValue

func (f *filterFlags) String() string {
	parts := make([]string, 0, len(*f))
	for _, filter := range *f {
		parts = append(parts, fmt.Sprintf("%s=%v", filter.Name, filter.Value))
	}

	return strings.Join(parts, ",")
}

func (f *filterFlags) Set(value string) error {
	name, fieldValue, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %q", ErrMalformedFilter, value)
	}

	*f = append(*f, entitytable.F(strings.TrimSpace(name), fieldValue))

	return nil
}

func parseFlags(args []string, output io.Writer) (Config, error) {
	var filters filterFlags

	fs := flag.NewFlagSet("librarian", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		entity     = fs.String("entity", "", "Entity to query: patrons, items, checkouts, antolin")
		op         = fs.String("op", "and", "How filters are combined: and, or")
		where      = fs.String("where", "", "Additional raw SQL condition without placeholders")
		limit      = fs.Uint64("limit", 0, "Maximum number of rows (0 means no limit)")
		offset     = fs.Uint64("offset", 0, "Number of rows to skip")
		order      = fs.String("order", "", "Comma separated order columns, prefix with - for descending")
		total      = fs.Bool("total", false, "Also count all matching rows")
		find       = fs.Bool("find", false, "Return only the first match")
		listFields = fs.Bool("fields", false, "List the filterable fields of the entity")
		adapter    = fs.String("adapter", adapterPGX, "Database adapter: pgx, sql, sqlx")
		envFile    = fs.String("env", ".env", "Environment file to load")
		debug      = fs.Bool("debug", false, "Log executed SQL")
	)
	fs.Var(&filters, "f", "Filter as field=value, may be repeated")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *entity == "" {
		return Config{}, ErrMissingEntity
	}

	logicalOp, err := parseLogicalOp(*op)
	if err != nil {
		return Config{}, err
	}

	switch *adapter {
	case adapterPGX, adapterSQL, adapterSQLX:
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownAdapter, *adapter)
	}

	return Config{
		Entity:  *entity,
		Filters: filters,
		Op:      logicalOp,
		Where:   *where,
		Options: entitytable.QueryOptions{
			Limit:     *limit,
			Offset:    *offset,
			OrderBy:   parseOrder(*order),
			WithTotal: *total,
		},
		Find:       *find,
		ListFields: *listFields,
		Adapter:    *adapter,
		EnvFile:    *envFile,
		Debug:      *debug,
	}, nil
}

func parseLogicalOp(op string) (entitytable.LogicalOp, error) {
	switch strings.ToLower(op) {
	case "and":
		return entitytable.And, nil
	case "or":
		return entitytable.Or, nil
	default:
		return entitytable.And, fmt.Errorf("%w: %q", ErrUnknownLogicalOp, op)
	}
}

func parseOrder(order string) []entitytable.OrderBy {
	if strings.TrimSpace(order) == "" {
		return nil
	}

	orderBy := make([]entitytable.OrderBy, 0)
	for _, column := range strings.Split(order, ",") {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}

		if descending, ok := strings.CutPrefix(column, "-"); ok {
			orderBy = append(orderBy, entitytable.OrderBy{Column: descending, Descending: true})
			continue
		}

		orderBy = append(orderBy, entitytable.OrderBy{Column: column})
	}

	return orderBy
}

// EntityQuery builds the query described by the flags. A raw condition alone still
// makes the field group present, so that it is applied.
func (c Config) EntityQuery() entitytable.EntityQuery {
	query := entitytable.EntityQuery{
		Fields:  entitytable.FieldsOf(c.Filters...),
		Op:      c.Op,
		Options: c.Options,
	}

	if strings.TrimSpace(c.Where) != "" {
		query.SQLWhere = entitytable.Raw(c.Where)
	}

	return query
}
