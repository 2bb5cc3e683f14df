package library

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
)

// ItemState is the lending state of an Item.
type ItemState string

const (
	ItemAvailable ItemState = "available"
	ItemLent      ItemState = "lent"
	ItemLost      ItemState = "lost"
)

// Item is one physical copy in the library's stock.
type Item struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Barcode   string    `db:"barcode" json:"barcode"`
	Title     string    `db:"title" json:"title"`
	Author    string    `db:"author" json:"author"`
	Publisher string    `db:"publisher" json:"publisher"`
	ISBN      string    `db:"isbn" json:"isbn"`
	Category  string    `db:"category" json:"category"`
	State     ItemState `db:"state" json:"state"`
	Added     time.Time `db:"added" json:"added"`
}

// ItemConfig maps Item onto the items table.
var ItemConfig = entitytable.EntityConfig{
	Name:       EntityItems,
	NaturalKey: "barcode",
	Columns: []entitytable.ColumnConfig{
		{Name: "id", Label: "ID", Domain: entitytable.UUIDDomain()},
		{Name: "barcode", Label: "Barcode"},
		{Name: "title", Label: "Title", QueryOp: entitytable.Contains},
		{Name: "author", Label: "Author", QueryOp: entitytable.Contains},
		{Name: "publisher", Label: "Publisher", QueryOp: entitytable.Contains},
		{Name: "isbn", Label: "ISBN", QueryOp: entitytable.EndsWith},
		{Name: "category", Label: "Category"},
		{Name: "state", Label: "State"},
		{Name: "added", Label: "Added", Domain: entitytable.DateDomain(time.DateOnly)},
	},
}
