// Package entitytable provides a typed mapping between library entities and single relational tables.
//
// An EntityTable is built once from a static EntityConfig and is immutable afterwards, so one
// instance can be shared by any number of concurrent callers. It compiles a declarative EntityQuery
// into a parameterized SQLQuery, hands it to a Db capability for execution and maps the raw rows
// back into typed entities.
//
// Matching semantics are configured per column:
//   - Equals:     field = ?
//   - Contains:   field like ?  (value wrapped as %value%)
//   - StartsWith: field like ?  (value wrapped as value%)
//   - EndsWith:   field like ?  (value wrapped as %value)
//
// Values are never interpolated into the SQL text; every value is bound to a positional ? placeholder.
//
// Common usage pattern:
//
//	items := entitytable.MustNewEntityTable[Item](entitytable.EntityConfig{
//		Name: "items",
//		Columns: []entitytable.ColumnConfig{
//			{Name: "id", Domain: entitytable.UUIDDomain()},
//			{Name: "title", QueryOp: entitytable.Contains},
//			{Name: "isbn", QueryOp: entitytable.EndsWith},
//		},
//	})
//
//	query := entitytable.EntityQuery{
//		Fields: entitytable.FieldsOf(entitytable.F("title", "cat"), entitytable.F("isbn", "123")),
//		Op:     entitytable.Or,
//	}
//
//	result, err := items.List(ctx, db, query)
package entitytable
