package library

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
)

const (
	antolinRecordFields = 11
	antolinDateLayout   = "02.01.2006"
	isbn10Length        = 10
	isbn10FormattedLen  = 13
	isbn13Length        = 13
	isbn13FormattedLen  = 17
)

var ErrMalformedAntolinRecord = errors.New("malformed antolin record")

// AntolinTitle is one entry of the Antolin reading-program title list.
// ISBNs that do not have the expected length are stored as nil.
type AntolinTitle struct {
	Author          string    `db:"author" json:"author"`
	Title           string    `db:"title" json:"title"`
	Publisher       string    `db:"publisher" json:"publisher"`
	ISBN10          *string   `db:"isbn10" json:"isbn10"`
	ISBN10Formatted *string   `db:"isbn10_formatted" json:"isbn10_formatted"`
	ISBN13          *string   `db:"isbn13" json:"isbn13"`
	ISBN13Formatted *string   `db:"isbn13_formatted" json:"isbn13_formatted"`
	BookID          string    `db:"book_id" json:"book_id"`
	AvailableSince  time.Time `db:"available_since" json:"available_since"`
	Grade           string    `db:"grade" json:"grade"`
	NumRead         int       `db:"num_read" json:"num_read"`
}

// AntolinConfig maps AntolinTitle onto the antolin table.
var AntolinConfig = entitytable.EntityConfig{
	Name:       EntityAntolin,
	NaturalKey: "book_id",
	Columns: []entitytable.ColumnConfig{
		{Name: "author", Label: "Author", QueryOp: entitytable.Contains},
		{Name: "title", Label: "Title", QueryOp: entitytable.Contains},
		{Name: "publisher", Label: "Publisher", QueryOp: entitytable.Contains},
		{Name: "isbn10", Label: "ISBN-10"},
		{Name: "isbn10_formatted", Label: "ISBN-10 (formatted)", Internal: true},
		{Name: "isbn13", Label: "ISBN-13"},
		{Name: "isbn13_formatted", Label: "ISBN-13 (formatted)", Internal: true},
		{Name: "book_id", Label: "Antolin book ID"},
		{Name: "available_since", Label: "Available since", Domain: entitytable.DateDomain(time.DateOnly)},
		{Name: "grade", Label: "Grade"},
		{Name: "num_read", Label: "Times read"},
	},
}

// AntolinColumns lists the antolin table columns in insert order.
func AntolinColumns() []string {
	columns := make([]string, 0, len(AntolinConfig.Columns))
	for _, column := range AntolinConfig.Columns {
		columns = append(columns, column.Name)
	}

	return columns
}

// ParseAntolinRecord parses one record of the semicolon separated Antolin CSV export.
// The export's column order is: author, title, publisher, isbn10, available since (dd.mm.yyyy),
// grade, times read, isbn13, formatted isbn10, formatted isbn13, book id.
func ParseAntolinRecord(record []string) (AntolinTitle, error) {
	if len(record) != antolinRecordFields {
		return AntolinTitle{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedAntolinRecord, antolinRecordFields, len(record))
	}

	availableSince, err := time.Parse(antolinDateLayout, strings.TrimSpace(record[4]))
	if err != nil {
		return AntolinTitle{}, errors.Join(ErrMalformedAntolinRecord, err)
	}

	numRead := 0
	if trimmed := strings.TrimSpace(record[6]); trimmed != "" {
		numRead, err = strconv.Atoi(trimmed)
		if err != nil {
			return AntolinTitle{}, errors.Join(ErrMalformedAntolinRecord, err)
		}
	}

	return AntolinTitle{
		Author:          record[0],
		Title:           record[1],
		Publisher:       record[2],
		ISBN10:          withLength(record[3], isbn10Length),
		AvailableSince:  availableSince,
		Grade:           record[5],
		NumRead:         numRead,
		ISBN13:          withLength(record[7], isbn13Length),
		ISBN10Formatted: withLength(record[8], isbn10FormattedLen),
		ISBN13Formatted: withLength(record[9], isbn13FormattedLen),
		BookID:          record[10],
	}, nil
}

// Row returns the title as a storage row, keyed by column name, before any column transforms.
func (a AntolinTitle) Row() entitytable.Row {
	return entitytable.Row{
		"author":           a.Author,
		"title":            a.Title,
		"publisher":        a.Publisher,
		"isbn10":           nullable(a.ISBN10),
		"isbn10_formatted": nullable(a.ISBN10Formatted),
		"isbn13":           nullable(a.ISBN13),
		"isbn13_formatted": nullable(a.ISBN13Formatted),
		"book_id":          a.BookID,
		"available_since":  a.AvailableSince,
		"grade":            a.Grade,
		"num_read":         a.NumRead,
	}
}

func nullable(value *string) any {
	if value == nil {
		return nil
	}

	return *value
}

func withLength(value string, length int) *string {
	if len(value) != length {
		return nil
	}

	return &value
}
