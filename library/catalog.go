package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-entitytable/entitytable"
)

const (
	EntityPatrons   = "patrons"
	EntityItems     = "items"
	EntityCheckouts = "checkouts"
	EntityAntolin   = "antolin"
)

var ErrUnknownEntity = errors.New("unknown entity")

// Catalog bundles the tables of all library entities with the Db they are read from.
// It is safe for concurrent use.
type Catalog struct {
	db        entitytable.Db
	patrons   *entitytable.EntityTable[Patron]
	items     *entitytable.EntityTable[Item]
	checkouts *entitytable.EntityTable[Checkout]
	antolin   *entitytable.EntityTable[AntolinTitle]
}

// NewCatalog builds the tables of all library entities. The options are applied to every table.
func NewCatalog(db entitytable.Db, options ...entitytable.Option) (*Catalog, error) {
	if db == nil {
		return nil, entitytable.ErrNilDatabaseConnection
	}

	patrons, err := entitytable.NewEntityTable[Patron](PatronConfig, options...)
	if err != nil {
		return nil, err
	}

	items, err := entitytable.NewEntityTable[Item](ItemConfig, options...)
	if err != nil {
		return nil, err
	}

	checkouts, err := entitytable.NewEntityTable[Checkout](CheckoutConfig, options...)
	if err != nil {
		return nil, err
	}

	antolin, err := entitytable.NewEntityTable[AntolinTitle](AntolinConfig, options...)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		db:        db,
		patrons:   patrons,
		items:     items,
		checkouts: checkouts,
		antolin:   antolin,
	}, nil
}

func (c *Catalog) Patrons() *entitytable.EntityTable[Patron] {
	return c.patrons
}

func (c *Catalog) Items() *entitytable.EntityTable[Item] {
	return c.items
}

func (c *Catalog) Checkouts() *entitytable.EntityTable[Checkout] {
	return c.checkouts
}

func (c *Catalog) AntolinTitles() *entitytable.EntityTable[AntolinTitle] {
	return c.antolin
}

// Entities returns the names of all entities known to the catalog.
func (c *Catalog) Entities() []string {
	return []string{EntityPatrons, EntityItems, EntityCheckouts, EntityAntolin}
}

// Fields returns the exposable fields of the named entity.
func (c *Catalog) Fields(entity string) ([]entitytable.ColumnConfig, error) {
	switch entity {
	case EntityPatrons:
		return c.patrons.GetFields(), nil
	case EntityItems:
		return c.items.GetFields(), nil
	case EntityCheckouts:
		return c.checkouts.GetFields(), nil
	case EntityAntolin:
		return c.antolin.GetFields(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
}

// List runs query against the named entity and returns the typed entities as values of type any.
func (c *Catalog) List(ctx context.Context, entity string, query entitytable.EntityQuery) (entitytable.QueryResult[any], error) {
	switch entity {
	case EntityPatrons:
		return listAny(ctx, c.patrons, c.db, query)
	case EntityItems:
		return listAny(ctx, c.items, c.db, query)
	case EntityCheckouts:
		return listAny(ctx, c.checkouts, c.db, query)
	case EntityAntolin:
		return listAny(ctx, c.antolin, c.db, query)
	default:
		return entitytable.QueryResult[any]{}, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
}

// Find runs query against the named entity expecting at most one match.
func (c *Catalog) Find(ctx context.Context, entity string, query entitytable.EntityQuery) (any, bool, error) {
	switch entity {
	case EntityPatrons:
		return findAny(ctx, c.patrons, c.db, query)
	case EntityItems:
		return findAny(ctx, c.items, c.db, query)
	case EntityCheckouts:
		return findAny(ctx, c.checkouts, c.db, query)
	case EntityAntolin:
		return findAny(ctx, c.antolin, c.db, query)
	default:
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
}

// SearchItems returns the items whose title or author contains text.
func (c *Catalog) SearchItems(ctx context.Context, text string, options entitytable.QueryOptions) (entitytable.QueryResult[Item], error) {
	return c.items.List(ctx, c.db, entitytable.EntityQuery{
		Fields:  entitytable.FieldsOf(entitytable.F("title", text), entitytable.F("author", text)),
		Op:      entitytable.Or,
		Options: options,
	})
}

// ItemByBarcode returns the item with the given barcode.
func (c *Catalog) ItemByBarcode(ctx context.Context, barcode string) (Item, bool, error) {
	return c.items.Find(ctx, c.db, entitytable.EntityQuery{
		Fields: entitytable.FieldsOf(entitytable.F("barcode", barcode)),
	})
}

// PatronsByName returns the patrons whose first and last name start with the given prefixes.
// An empty prefix does not restrict the respective name.
func (c *Catalog) PatronsByName(ctx context.Context, firstName, lastName string) (entitytable.QueryResult[Patron], error) {
	fields := entitytable.FieldsOf()
	if firstName != "" {
		fields = fields.With("first_name", firstName)
	}
	if lastName != "" {
		fields = fields.With("last_name", lastName)
	}

	return c.patrons.List(ctx, c.db, entitytable.EntityQuery{
		Fields:  fields,
		Options: entitytable.QueryOptions{OrderBy: []entitytable.OrderBy{{Column: "last_name"}, {Column: "first_name"}}},
	})
}

// ActivePatrons returns all active patrons.
func (c *Catalog) ActivePatrons(ctx context.Context, options entitytable.QueryOptions) (entitytable.QueryResult[Patron], error) {
	return c.patrons.List(ctx, c.db, entitytable.EntityQuery{
		Fields:  entitytable.FieldsOf(entitytable.F("active", true)),
		Options: options,
	})
}

// CheckoutsOfPatron returns the checkouts of a patron, newest first.
// With openOnly, returned checkouts are left out.
func (c *Catalog) CheckoutsOfPatron(ctx context.Context, patronID uuid.UUID, openOnly bool) (entitytable.QueryResult[Checkout], error) {
	query := entitytable.EntityQuery{
		Fields:  entitytable.FieldsOf(entitytable.F("patron_id", patronID.String())),
		Options: entitytable.QueryOptions{OrderBy: []entitytable.OrderBy{{Column: "checked_out", Descending: true}}},
	}

	if openOnly {
		query.SQLWhere = entitytable.Raw("returned is null")
	}

	return c.checkouts.List(ctx, c.db, query)
}

// OverdueCheckouts returns the open checkouts whose due date lies before now, oldest due date first.
func (c *Catalog) OverdueCheckouts(ctx context.Context, now time.Time) (entitytable.QueryResult[Checkout], error) {
	return c.checkouts.List(ctx, c.db, entitytable.EntityQuery{
		Fields:   entitytable.FieldsOf(),
		SQLWhere: entitytable.Raw("returned is null and due_date < ?", now.Format(time.DateOnly)),
		Options:  entitytable.QueryOptions{OrderBy: []entitytable.OrderBy{{Column: "due_date"}}},
	})
}

// AntolinTitleByISBN looks up an Antolin title by its unformatted ISBN-13.
func (c *Catalog) AntolinTitleByISBN(ctx context.Context, isbn13 string) (AntolinTitle, bool, error) {
	return c.antolin.Find(ctx, c.db, entitytable.EntityQuery{
		Fields: entitytable.FieldsOf(entitytable.F("isbn13", isbn13)),
	})
}

func listAny[T any](
	ctx context.Context,
	table *entitytable.EntityTable[T],
	db entitytable.Db,
	query entitytable.EntityQuery,
) (entitytable.QueryResult[any], error) {

	result, err := table.List(ctx, db, query)
	if err != nil {
		return entitytable.QueryResult[any]{}, err
	}

	return entitytable.MapQueryResult(result, func(entity T) (any, error) { return entity, nil })
}

func findAny[T any](
	ctx context.Context,
	table *entitytable.EntityTable[T],
	db entitytable.Db,
	query entitytable.EntityQuery,
) (any, bool, error) {

	entity, found, err := table.Find(ctx, db, query)
	if err != nil || !found {
		return nil, found, err
	}

	return entity, true, nil
}
