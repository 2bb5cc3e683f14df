package testdoubles

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
)

// SelectRowCall is one recorded SelectRow invocation.
type SelectRowCall struct {
	SQL    string
	Params []any
}

// DbStub is an entitytable.Db returning canned rows.
type DbStub struct {
	rows            []entitytable.Row
	total           *int64
	err             error
	selectRowsCalls []entitytable.SQLQuery
	selectRowCalls  []SelectRowCall
	mu              sync.Mutex
}

// NewDbStub creates a DbStub which returns the given rows.
func NewDbStub(rows ...entitytable.Row) *DbStub {
	return &DbStub{rows: rows}
}

// WithTotal makes SelectRows attach the given total count.
func (s *DbStub) WithTotal(total int64) *DbStub {
	s.total = &total
	return s
}

// WithError makes every call fail with err.
func (s *DbStub) WithError(err error) *DbStub {
	s.err = err
	return s
}

// SelectRows implements entitytable.Db.
func (s *DbStub) SelectRows(_ context.Context, query entitytable.SQLQuery) (entitytable.QueryResult[entitytable.Row], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectRowsCalls = append(s.selectRowsCalls, query)

	if s.err != nil {
		return entitytable.QueryResult[entitytable.Row]{}, s.err
	}

	rows := make([]entitytable.Row, len(s.rows))
	copy(rows, s.rows)

	return entitytable.QueryResult[entitytable.Row]{Rows: rows, Total: s.total}, nil
}

// SelectRow implements entitytable.Db.
func (s *DbStub) SelectRow(_ context.Context, sql string, params []any) (entitytable.Row, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectRowCalls = append(s.selectRowCalls, SelectRowCall{SQL: sql, Params: params})

	if s.err != nil {
		return nil, false, s.err
	}

	if len(s.rows) == 0 {
		return nil, false, nil
	}

	return s.rows[0], true, nil
}

// SelectRowsCalls returns a copy of all recorded SelectRows queries.
func (s *DbStub) SelectRowsCalls() []entitytable.SQLQuery {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := make([]entitytable.SQLQuery, len(s.selectRowsCalls))
	copy(calls, s.selectRowsCalls)

	return calls
}

// SelectRowCalls returns a copy of all recorded SelectRow invocations.
func (s *DbStub) SelectRowCalls() []SelectRowCall {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := make([]SelectRowCall, len(s.selectRowCalls))
	copy(calls, s.selectRowCalls)

	return calls
}

var _ entitytable.Db = (*DbStub)(nil)
