package entitytable

// MatchOp is the matching mode used when a column appears in a filter.
// It is fixed per column at configuration time.
type MatchOp uint8

const (
	Equals MatchOp = iota
	Contains
	StartsWith
	EndsWith
)

func (m MatchOp) String() string {
	switch m {
	case Contains:
		return "contains"
	case StartsWith:
		return "startswith"
	case EndsWith:
		return "endswith"
	default:
		return "equals"
	}
}

// Domain is a pair of transforms between the storage representation and the domain representation
// of one column value. Either function may be nil.
type Domain struct {
	FromDB func(raw any) (any, error)
	ToDB   func(value any) (any, error)
}

// ColumnConfig is the static mapping configuration of one entity field.
type ColumnConfig struct {
	Name     string
	Label    string
	Domain   *Domain
	QueryOp  MatchOp
	Internal bool
}

// Column wraps one ColumnConfig and exposes it read-only.
type Column struct {
	config ColumnConfig
}

func newColumn(config ColumnConfig) Column {
	return Column{config: config}
}

func (c Column) Name() string {
	return c.config.Name
}

// Label returns the configured label, falling back to the column name.
func (c Column) Label() string {
	if c.config.Label == "" {
		return c.config.Name
	}

	return c.config.Label
}

func (c Column) Domain() *Domain {
	return c.config.Domain
}

func (c Column) QueryOp() MatchOp {
	return c.config.QueryOp
}

func (c Column) Internal() bool {
	return c.config.Internal
}

func (c Column) Config() ColumnConfig {
	return c.config
}
