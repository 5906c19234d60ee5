// Package pkg provides the core libraries for Lineage family tree
// visualization.
//
// # Overview
//
// Lineage loads a flat list of people from a Wikibase instance (or a
// snapshot file), builds a bounded ancestor or descendant tree from a
// selected person, attaches portrait images and lays the tree out for
// display. The pkg directory is organized into these areas:
//
//  1. [person], [familytree], [enrich], [layout] - Domain logic
//  2. [cache], [httputil], [errors], [observability] - Infrastructure
//  3. [integrations] - External clients (Wikibase SPARQL, image hosts)
//  4. [pipeline] - Orchestration (fetch → build → enrich → layout)
//  5. [graph], [render] - Serialization and output formats
//
// # Architecture
//
// The typical data flow through Lineage:
//
//	Wikibase SPARQL / people.json
//	         ↓
//	    [person] package (indexed repository)
//	         ↓
//	    [familytree] package (bounded, cycle-safe tree)
//	         ↓
//	    [enrich] package (concurrent image lookup)
//	         ↓
//	    [layout] package (coordinates + viewport)
//	         ↓
//	    JSON / DOT / SVG / PNG / PDF output
//
// # Quick Start
//
//	repo := person.Index(people)
//	tree := familytree.Build("Q1", repo, familytree.DefaultOptions())
//	res := layout.Compute(tree, layout.Vertical)
//	t := layout.CenterOn(res.Nodes, "Q1", 1200)
//
// Most callers use [pipeline.Runner], which runs these stages with caching.
//
// [person]: github.com/matzehuels/lineage/pkg/person
// [familytree]: github.com/matzehuels/lineage/pkg/familytree
// [enrich]: github.com/matzehuels/lineage/pkg/enrich
// [layout]: github.com/matzehuels/lineage/pkg/layout
// [cache]: github.com/matzehuels/lineage/pkg/cache
// [httputil]: github.com/matzehuels/lineage/pkg/httputil
// [errors]: github.com/matzehuels/lineage/pkg/errors
// [observability]: github.com/matzehuels/lineage/pkg/observability
// [integrations]: github.com/matzehuels/lineage/pkg/integrations
// [pipeline]: github.com/matzehuels/lineage/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/lineage/pkg/pipeline#Runner
// [graph]: github.com/matzehuels/lineage/pkg/graph
// [render]: github.com/matzehuels/lineage/pkg/render
package pkg
