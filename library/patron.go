package library

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
)

// Patron is a registered reader of the library.
type Patron struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Active    bool      `db:"active" json:"active"`
	Notes     string    `db:"notes" json:"notes"`
}

// PatronConfig maps Patron onto the patrons table.
var PatronConfig = entitytable.EntityConfig{
	Name:       EntityPatrons,
	NaturalKey: "email",
	Columns: []entitytable.ColumnConfig{
		{Name: "id", Label: "ID", Domain: entitytable.UUIDDomain()},
		{Name: "first_name", Label: "First name", QueryOp: entitytable.StartsWith},
		{Name: "last_name", Label: "Last name", QueryOp: entitytable.StartsWith},
		{Name: "email", Label: "Email", QueryOp: entitytable.Contains},
		{Name: "phone", Label: "Phone"},
		{Name: "active", Label: "Active", Domain: entitytable.BoolDomain()},
		{Name: "notes", Label: "Notes", Internal: true},
	},
}
