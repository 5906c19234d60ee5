// Package graph provides serialization types for people snapshots and
// rendered family tree layouts.
//
// This package defines the canonical wire format for Lineage data, used for
// JSON files, API responses, caching, and cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Snapshot], [Layout]: Serialization types (this package)
//   - pkg/person.Repository: Internal indexed people collection
//   - pkg/layout.Result: Internal positioned tree
//
// Use [FromResult] and [Layout.ToResult] to convert layouts, and
// [Snapshot.Repository] to index a snapshot.
//
// # Snapshot Serialization
//
// A snapshot is the flat person list fetched from a data source:
//
//	{
//	  "version": 1,
//	  "source": "wikibase",
//	  "fetched_at": "2026-01-02T15:04:05Z",
//	  "people": [{"id": "Q1", "name": "John Smith"}]
//	}
//
// A bare JSON array of people is accepted on input as well.
//
// Common operations:
//
//	snap, _ := graph.ReadSnapshotFile("people.json")
//	graph.WriteSnapshotFile(snap, "people.json")
//	repo := snap.Repository()
//
// # Layout Serialization
//
// Layouts carry positioned nodes, parent-child edges and the initial
// viewport transform. An empty layout (root not found) is valid and has
// Empty set.
//
// # Hashing
//
// [Snapshot.Hash] identifies the content of a snapshot independent of when
// it was fetched, so cached layouts survive a refresh that returned the same
// people.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
