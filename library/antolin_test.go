package library_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
	"github.com/AntonStoeckl/library-entitytable/library"
)

func antolinRecord() []string {
	return []string{
		"Ende, Michael",     // author
		"Momo",              // title
		"Thienemann",        // publisher
		"3522119906",        // isbn10
		"15.03.2004",        // available since
		"5",                 // grade
		"1234",              // times read
		"9783522119902",     // isbn13
		"3-522-11990-6",     // isbn10 formatted
		"978-3-522-11990-2", // isbn13 formatted
		"10042",             // book id
	}
}

func Test_ParseAntolinRecord_ParsesWellFormedRecord(t *testing.T) {
	// act
	title, err := library.ParseAntolinRecord(antolinRecord())

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "Ende, Michael", title.Author)
	assert.Equal(t, "Momo", title.Title)
	assert.Equal(t, "3522119906", *title.ISBN10)
	assert.Equal(t, "3-522-11990-6", *title.ISBN10Formatted)
	assert.Equal(t, "9783522119902", *title.ISBN13)
	assert.Equal(t, "978-3-522-11990-2", *title.ISBN13Formatted)
	assert.Equal(t, time.Date(2004, 3, 15, 0, 0, 0, 0, time.UTC), title.AvailableSince)
	assert.Equal(t, "5", title.Grade)
	assert.Equal(t, 1234, title.NumRead)
	assert.Equal(t, "10042", title.BookID)
}

func Test_ParseAntolinRecord_DiscardsMalformedISBNs(t *testing.T) {
	// arrange
	record := antolinRecord()
	record[3] = "352211990"
	record[7] = ""
	record[8] = "3522119906"
	record[9] = "9783522119902"

	// act
	title, err := library.ParseAntolinRecord(record)

	// assert
	assert.NoError(t, err)
	assert.Nil(t, title.ISBN10)
	assert.Nil(t, title.ISBN13)
	assert.Nil(t, title.ISBN10Formatted)
	assert.Nil(t, title.ISBN13Formatted)
}

func Test_ParseAntolinRecord_RejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]string) []string
	}{
		{name: "too few fields", mutate: func(r []string) []string { return r[:10] }},
		{name: "bad date", mutate: func(r []string) []string { r[4] = "2004-03-15"; return r }},
		{name: "bad read count", mutate: func(r []string) []string { r[6] = "many"; return r }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			_, err := library.ParseAntolinRecord(tt.mutate(antolinRecord()))

			// assert
			assert.ErrorIs(t, err, library.ErrMalformedAntolinRecord)
		})
	}
}

func Test_AntolinTitle_Row_MapsToStorage(t *testing.T) {
	// setup
	record := antolinRecord()
	record[7] = "97835"
	title, err := library.ParseAntolinRecord(record)
	assert.NoError(t, err)
	table := entitytable.MustNewEntityTable[library.AntolinTitle](library.AntolinConfig)

	// act
	row, err := table.ToDBRow(title.Row())

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "2004-03-15", row["available_since"])
	assert.Nil(t, row["isbn13"])
	assert.Equal(t, "3522119906", row["isbn10"])
	assert.Len(t, row, len(library.AntolinColumns()))
}

func Test_AntolinTitle_RoundTripsThroughTable(t *testing.T) {
	// setup
	title, err := library.ParseAntolinRecord(antolinRecord())
	assert.NoError(t, err)
	table := entitytable.MustNewEntityTable[library.AntolinTitle](library.AntolinConfig)
	row, err := table.ToDBRow(title.Row())
	assert.NoError(t, err)

	// act
	decoded, err := table.FromDB(row)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, title, decoded)
}
