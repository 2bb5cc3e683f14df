package entitytable

// LogicalOp combines the field conditions of one EntityQuery.
type LogicalOp uint8

const (
	And LogicalOp = iota
	Or
)

func (o LogicalOp) String() string {
	if o == Or {
		return "or"
	}

	return "and"
}

/***** FieldValue *****/

// FieldValue is one field name with the value to filter on.
type FieldValue struct {
	Name  string
	Value any
}

// F is a shorthand constructor for FieldValue.
func F(name string, value any) FieldValue {
	return FieldValue{Name: name, Value: value}
}

/***** Fields *****/

// Fields is an optional, insertion-ordered set of field filters.
//
// The zero value is absent (NoFields). FieldsOf() without arguments is present but empty.
// Both produce no WHERE clause, but they take different paths through ToSQLQuery.
type Fields struct {
	entries []FieldValue
	present bool
}

// NoFields returns absent Fields.
func NoFields() Fields {
	return Fields{}
}

// FieldsOf returns present Fields holding the given entries in the given order.
func FieldsOf(entries ...FieldValue) Fields {
	return Fields{
		entries: append([]FieldValue{}, entries...),
		present: true,
	}
}

// With returns a copy of f with one more entry appended. Absent Fields become present.
func (f Fields) With(name string, value any) Fields {
	entries := make([]FieldValue, 0, len(f.entries)+1)
	entries = append(entries, f.entries...)
	entries = append(entries, F(name, value))

	return Fields{entries: entries, present: true}
}

func (f Fields) IsPresent() bool {
	return f.present
}

func (f Fields) Entries() []FieldValue {
	return f.entries
}

func (f Fields) Len() int {
	return len(f.entries)
}

/***** QueryOptions *****/

// OrderBy is one ordering instruction for the execution layer.
type OrderBy struct {
	Column     string
	Descending bool
}

// QueryOptions is passed through unmodified to the Db capability, which applies it.
type QueryOptions struct {
	Limit     uint64
	Offset    uint64
	OrderBy   []OrderBy
	WithTotal bool
}

/***** EntityQuery *****/

// EntityQuery is the caller's filter description for one EntityTable.
type EntityQuery struct {
	Fields   Fields
	Op       LogicalOp
	SQLWhere *SQLWhere
	Options  QueryOptions
}
