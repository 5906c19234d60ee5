// Package enrich attaches display images to the nodes of a built family tree.
//
// [Enrich] runs in a separate phase after the tree shape is complete. It
// flattens the tree, asks an [ImageResolver] for each distinct person with
// bounded concurrency, waits for every request to settle, and only then
// writes the results into the nodes. Callers therefore never see a tree
// with some images applied and others still in flight.
//
// Resolver failures are never fatal: the node simply keeps an empty
// ImageURL and the miss is counted in [Stats].
//
// # Stale Renders
//
// A [Generation] hands out a [Token] per render. When the caller starts a
// newer render before an older one has finished enriching, results for the
// older token are dropped on arrival and [Enrich] returns [ErrStale]
// without touching the tree.
package enrich
