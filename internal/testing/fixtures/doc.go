// Package fixtures provides test data factories.
//
// Each factory method creates a record with sensible defaults, allowing
// customization via option functions, and writes it through the TestDB's
// cached stores.
//
// Usage:
//
//	tdb := testdb.New(t)
//	f := fixtures.New(tdb)
//	owner := f.CreatePlayer(t)
//	guild := f.CreateGuild(t, owner)
package fixtures
