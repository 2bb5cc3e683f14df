package entitytable_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
)

func Test_BoolDomain_FromDB(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected any
	}{
		{name: "nil_stays_nil", raw: nil, expected: nil},
		{name: "bool_passes_through", raw: true, expected: true},
		{name: "int64_one", raw: int64(1), expected: true},
		{name: "int64_zero", raw: int64(0), expected: false},
		{name: "int32_one", raw: int32(1), expected: true},
		{name: "text", raw: "false", expected: false},
		{name: "bytes", raw: []byte("1"), expected: true},
	}

	domain := entitytable.BoolDomain()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			value, err := domain.FromDB(tc.raw)

			assert.NoError(t, err)
			assert.Equal(t, tc.expected, value)
		})
	}
}

func Test_BoolDomain_RejectsUnsupportedValues(t *testing.T) {
	_, err := entitytable.BoolDomain().FromDB(1.5)

	assert.ErrorIs(t, err, entitytable.ErrUnsupportedStorageValue)
}

func Test_DateDomain_RoundTrip(t *testing.T) {
	domain := entitytable.DateDomain("02.01.2006")

	value, err := domain.FromDB("24.12.2024")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC), value)

	raw, err := domain.ToDB(value)
	assert.NoError(t, err)
	assert.Equal(t, "24.12.2024", raw)
}

func Test_DateDomain_PassesNativeTimeThrough(t *testing.T) {
	now := time.Now()

	value, err := entitytable.DateDomain(time.DateOnly).FromDB(now)

	assert.NoError(t, err)
	assert.Equal(t, now, value)
}

func Test_UUIDDomain_FromDB(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name string
		raw  any
	}{
		{name: "text", raw: id.String()},
		{name: "text_bytes", raw: []byte(id.String())},
		{name: "binary_bytes", raw: id[:]},
		{name: "byte_array", raw: [16]byte(id)},
		{name: "uuid", raw: id},
	}

	domain := entitytable.UUIDDomain()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			value, err := domain.FromDB(tc.raw)

			assert.NoError(t, err)
			assert.Equal(t, id, value)
		})
	}
}

func Test_UUIDDomain_ToDB(t *testing.T) {
	id := uuid.New()

	raw, err := entitytable.UUIDDomain().ToDB(id)

	assert.NoError(t, err)
	assert.Equal(t, id.String(), raw)
}

type testMetadata struct {
	Source string   `json:"source"`
	Tags   []string `json:"tags"`
}

func Test_JSONDomain_FromDB(t *testing.T) {
	expected := testMetadata{Source: "antolin", Tags: []string{"grade-3"}}

	tests := []struct {
		name string
		raw  any
	}{
		{name: "bytes", raw: []byte(`{"source":"antolin","tags":["grade-3"]}`)},
		{name: "text", raw: `{"source":"antolin","tags":["grade-3"]}`},
		{name: "driver_decoded_map", raw: map[string]any{"source": "antolin", "tags": []any{"grade-3"}}},
	}

	domain := entitytable.JSONDomain[testMetadata]()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			value, err := domain.FromDB(tc.raw)

			assert.NoError(t, err)
			assert.Equal(t, expected, value)
		})
	}
}

func Test_JSONDomain_ToDB(t *testing.T) {
	raw, err := entitytable.JSONDomain[testMetadata]().ToDB(testMetadata{Source: "shelf"})

	assert.NoError(t, err)
	assert.JSONEq(t, `{"source":"shelf","tags":null}`, string(raw.([]byte)))
}
