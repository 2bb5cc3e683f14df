// Package library defines the entities of the library backend (patrons, items, checkouts and
// the Antolin reading-program title list) and their table mappings.
//
// Catalog bundles one entitytable.EntityTable per entity with a Db capability and offers the
// typed queries the rest of the backend needs:
//
//	catalog, err := library.NewCatalog(db, entitytable.WithLogger(logger))
//	items, err := catalog.SearchItems(ctx, "cat", entitytable.QueryOptions{Limit: 20})
package library
