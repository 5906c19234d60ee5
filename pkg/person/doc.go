// Package person provides the genealogical record type and an indexed,
// read-only view over a flat collection of records.
//
// # Overview
//
// Lineage renders family trees from a graph of people connected by parent
// links. This package holds the canonical [Person] records as they arrive
// from a data source and indexes them for constant-time lookup by identifier
// and reverse lookup of children.
//
// # Basic Usage
//
// Build a [Repository] with [Index] and query it:
//
//	repo := person.Index(people)
//	p, ok := repo.ByID("Q1")
//	kids := repo.ChildrenOf("Q1")
//
// A Repository is never patched in place. When the underlying data is
// refreshed, build a new Repository and swap it in wholesale.
//
// # Malformed References
//
// Father and mother identifiers should point at other records, but the
// index tolerates dangling references: [Repository.Father] and
// [Repository.Mother] report absence for them, and [Repository.Dangling]
// lists them for diagnostics.
//
// # Derived Fields
//
// [ExtractYear], [FormatDate], [Age] and [FormatBirthOrder] derive display
// strings from the partial ISO-8601 dates carried by records.
//
// # Concurrency
//
// A Repository is immutable after [Index] returns and is safe for
// concurrent reads.
package person
