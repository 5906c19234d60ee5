// Package wikibase loads people from a Wikibase SPARQL query service.
//
// A single SELECT returns one row per combination of optional values, so a
// person with three aliases arrives as three rows. [Client.FetchPeople]
// groups rows by entity ID: the first row wins for scalar fields and aliases
// are appended in row order without duplicates.
//
// Property and class IDs differ between Wikibase instances and are supplied
// through [Properties]. [DefaultConfig] targets the public instance the
// project was first built against.
package wikibase
