package entitytable_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
)

func Test_MapQueryResult_PreservesTotal(t *testing.T) {
	total := int64(7)
	result := entitytable.QueryResult[int]{Rows: []int{1, 2, 3}, Total: &total}

	mapped, err := entitytable.MapQueryResult(result, func(i int) (string, error) {
		return strconv.Itoa(i * 10), nil
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"10", "20", "30"}, mapped.Rows)
	assert.Same(t, result.Total, mapped.Total)
}

func Test_MapQueryResult_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	_, err := entitytable.MapQueryResult(
		entitytable.QueryResult[int]{Rows: []int{1, 2, 3}},
		func(i int) (int, error) {
			calls++
			if i == 2 {
				return 0, boom
			}
			return i, nil
		},
	)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func Test_Fields_With_DoesNotAliasReceiver(t *testing.T) {
	base := entitytable.FieldsOf(entitytable.F("a", 1))

	first := base.With("b", 2)
	second := base.With("c", 3)

	assert.Equal(t, []entitytable.FieldValue{{Name: "a", Value: 1}}, base.Entries())
	assert.Equal(t, []entitytable.FieldValue{{Name: "a", Value: 1}, {Name: "b", Value: 2}}, first.Entries())
	assert.Equal(t, []entitytable.FieldValue{{Name: "a", Value: 1}, {Name: "c", Value: 3}}, second.Entries())
}

func Test_MatchOp_And_LogicalOp_String(t *testing.T) {
	assert.Equal(t, "equals", entitytable.Equals.String())
	assert.Equal(t, "contains", entitytable.Contains.String())
	assert.Equal(t, "startswith", entitytable.StartsWith.String())
	assert.Equal(t, "endswith", entitytable.EndsWith.String())
	assert.Equal(t, "and", entitytable.And.String())
	assert.Equal(t, "or", entitytable.Or.String())
}
