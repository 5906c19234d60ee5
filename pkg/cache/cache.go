// Package cache provides the byte-oriented caching layer shared by the data
// source, the image resolver and the render pipeline.
//
// # Backends
//
// Every backend implements [Cache]:
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [MemoryCache]: process-local map, for tests and the server
//   - [RedisCache]: a shared Redis instance
//   - [MongoCache]: one document per key in a MongoDB collection
//   - [NullCache]: never stores anything
//
// [Open] selects a backend from a URL such as "file:///tmp/lineage",
// "redis://localhost:6379/0" or "memory://".
//
// # Keys
//
// A [Keyer] derives keys for each kind of cached value. Keys embed a hash of
// every option that changes the value, so differently configured requests
// never collide.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
//
// Get returns (nil, false, nil) on a miss. A TTL of zero means the entry
// does not expire. Implementations are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live values per kind of cached data.
const (
	TTLHTTP   = 24 * time.Hour     // raw responses from remote services
	TTLPeople = time.Hour          // parsed people snapshots
	TTLTree   = 24 * time.Hour     // rendered layouts, keyed by snapshot hash
	TTLImage  = 7 * 24 * time.Hour // resolved image references, including misses
)

// Keyer generates cache keys.
type Keyer interface {
	// HTTPKey returns the key for a raw HTTP response.
	HTTPKey(namespace, key string) string
	// PeopleKey returns the key for a people snapshot fetched from source.
	PeopleKey(source string, opts PeopleKeyOpts) string
	// TreeKey returns the key for a layout computed from a snapshot.
	TreeKey(snapshotHash string, opts TreeKeyOpts) string
	// ImageKey returns the key for a person's resolved image reference.
	ImageKey(personID string, opts ImageKeyOpts) string
}

// PeopleKeyOpts holds the query options that shape a people snapshot.
type PeopleKeyOpts struct {
	Language    string `json:"language,omitempty"`
	PersonClass string `json:"person_class,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// TreeKeyOpts holds the traversal and layout options that shape a tree.
type TreeKeyOpts struct {
	Root               string `json:"root"`
	Direction          string `json:"direction"`
	MaxDepth           int    `json:"max_depth"`
	IncludeBothParents bool   `json:"include_both_parents"`
	Orientation        string `json:"orientation"`
	ViewportWidth      int    `json:"viewport_width,omitempty"`
	Images             bool   `json:"images,omitempty"`
}

// ImageKeyOpts holds the resolver settings that shape an image reference.
type ImageKeyOpts struct {
	Width  int    `json:"width,omitempty"`
	Source string `json:"source,omitempty"`

	// Values are the person's recorded image values. Editing them in the
	// source yields a new key.
	Values []string `json:"values,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// PeopleKey returns "people:<hash>".
func (DefaultKeyer) PeopleKey(source string, opts PeopleKeyOpts) string {
	return hashKey("people", source, opts)
}

// TreeKey returns "tree:<hash>".
func (DefaultKeyer) TreeKey(snapshotHash string, opts TreeKeyOpts) string {
	return hashKey("tree", snapshotHash, opts)
}

// ImageKey returns "image:<hash>".
func (DefaultKeyer) ImageKey(personID string, opts ImageKeyOpts) string {
	return hashKey("image", personID, opts)
}

var _ Keyer = DefaultKeyer{}
