package cache

// ScopedKeyer wraps a Keyer with a prefix so several datasets can share one
// backend without key collisions.
//
//	wiki := NewScopedKeyer(NewDefaultKeyer(), "wiki:family:")
//	sample := NewScopedKeyer(NewDefaultKeyer(), "sample:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// PeopleKey generates a prefixed key for people snapshots.
func (k *ScopedKeyer) PeopleKey(source string, opts PeopleKeyOpts) string {
	return k.prefix + k.inner.PeopleKey(source, opts)
}

// TreeKey generates a prefixed key for rendered trees.
func (k *ScopedKeyer) TreeKey(snapshotHash string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(snapshotHash, opts)
}

// ImageKey generates a prefixed key for image references.
func (k *ScopedKeyer) ImageKey(personID string, opts ImageKeyOpts) string {
	return k.prefix + k.inner.ImageKey(personID, opts)
}
