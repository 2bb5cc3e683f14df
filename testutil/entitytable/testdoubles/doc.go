// Package testdoubles provides test doubles for the entitytable.Db capability.
//
// DbStub returns canned rows and records every compiled query it receives, so tests can assert
// on the SQL text and bind parameters an EntityTable produced without a real database.
package testdoubles
