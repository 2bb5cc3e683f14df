package entitytable

import (
	"strings"
)

const (
	placeholder   = "?"
	keywordSelect = "select "
	keywordWhere  = "where "
	keywordAnd    = " and "
	keywordOr     = " or "
	selectAllFrom = "* from "
	likeWildcard  = "%"
)

// ComparisonOp is a concrete SQL comparison operator.
type ComparisonOp string

const (
	OpEq   ComparisonOp = "="
	OpLike ComparisonOp = "like"
)

// SQLTerm is one compiled comparison, ready for rendering.
type SQLTerm struct {
	Field string
	Op    ComparisonOp
	Value any
}

// SQLWhere is a rendered boolean expression with its positional bind values.
// Where is empty when there are no conditions.
type SQLWhere struct {
	Where  string
	Params []any
}

// Raw builds a caller-supplied WHERE fragment.
func Raw(where string, params ...any) *SQLWhere {
	return &SQLWhere{Where: where, Params: params}
}

func (w SQLWhere) IsEmpty() bool {
	return strings.TrimSpace(w.Where) == ""
}

// SQLQuery is the unit submitted to the Db capability.
type SQLQuery struct {
	SQL     string
	Params  []any
	Options QueryOptions
}

func renderTerm(term SQLTerm, prefix string) string {
	return prefix + term.Field + " " + string(term.Op) + " " + placeholder
}

func joinOp(op LogicalOp) string {
	if op == Or {
		return keywordOr
	}

	return keywordAnd
}

func parenthesize(expression string) string {
	return "(" + expression + ")"
}
