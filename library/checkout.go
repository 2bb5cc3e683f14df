package library

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
)

// Checkout records one lending of an Item to a Patron.
type Checkout struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ItemID     uuid.UUID  `db:"item_id" json:"item_id"`
	PatronID   uuid.UUID  `db:"patron_id" json:"patron_id"`
	CheckedOut time.Time  `db:"checked_out" json:"checked_out"`
	DueDate    time.Time  `db:"due_date" json:"due_date"`
	Returned   *time.Time `db:"returned" json:"returned"`
	Extensions int        `db:"extensions" json:"extensions"`
}

// IsOverdue reports whether the checkout is still open after its due date.
func (c Checkout) IsOverdue(now time.Time) bool {
	return c.Returned == nil && c.DueDate.Before(now)
}

// CheckoutConfig maps Checkout onto the checkouts table.
var CheckoutConfig = entitytable.EntityConfig{
	Name: EntityCheckouts,
	Columns: []entitytable.ColumnConfig{
		{Name: "id", Label: "ID", Domain: entitytable.UUIDDomain()},
		{Name: "item_id", Label: "Item", Domain: entitytable.UUIDDomain()},
		{Name: "patron_id", Label: "Patron", Domain: entitytable.UUIDDomain()},
		{Name: "checked_out", Label: "Checked out", Domain: entitytable.DateDomain(time.DateOnly)},
		{Name: "due_date", Label: "Due", Domain: entitytable.DateDomain(time.DateOnly)},
		{Name: "returned", Label: "Returned", Domain: entitytable.DateDomain(time.DateOnly)},
		{Name: "extensions", Label: "Extensions", Internal: true},
	},
}
