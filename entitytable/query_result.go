package entitytable

// QueryResult holds typed rows plus the metadata the execution layer attached.
type QueryResult[T any] struct {
	Rows  []T
	Total *int64
}

// MapQueryResult maps every row of r through fn and keeps r's metadata.
func MapQueryResult[S any, T any](r QueryResult[S], fn func(S) (T, error)) (QueryResult[T], error) {
	rows := make([]T, 0, len(r.Rows))

	for _, row := range r.Rows {
		mapped, err := fn(row)
		if err != nil {
			return QueryResult[T]{}, err
		}

		rows = append(rows, mapped)
	}

	return QueryResult[T]{Rows: rows, Total: r.Total}, nil
}
