package enrich

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"time"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/person"
)

// noImage marks a cached negative result.
const noImage = "-"

// Cached wraps an [ImageResolver] with an explicit cache. Both hits and
// "no image" answers are stored; transient errors are not.
//
// Keys include the person's image values from the latest snapshot passed
// to SetPeople, so a refresh that adds or changes an image is looked up
// again while unchanged records keep their cached answer.
type Cached struct {
	Resolver ImageResolver
	Cache    cache.Cache
	Keyer    cache.Keyer
	Opts     cache.ImageKeyOpts
	TTL      time.Duration

	people atomic.Pointer[person.Repository]
}

// NewCached returns a caching resolver. A nil cache disables caching and a
// zero ttl uses [cache.TTLImage].
func NewCached(r ImageResolver, c cache.Cache, keyer cache.Keyer, opts cache.ImageKeyOpts, ttl time.Duration) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl <= 0 {
		ttl = cache.TTLImage
	}
	return &Cached{Resolver: r, Cache: c, Keyer: keyer, Opts: opts, TTL: ttl}
}

// Resolve returns the cached reference for personID, consulting the wrapped
// resolver on a miss. Cache read and write failures degrade to uncached
// lookups.
func (c *Cached) Resolve(ctx context.Context, personID string) (string, error) {
	key := c.key(personID)
	if data, ok, err := c.Cache.Get(ctx, key); err == nil && ok {
		if string(data) == noImage {
			return "", ErrNoImage
		}
		return string(data), nil
	}

	ref, err := c.Resolver.Resolve(ctx, personID)
	switch {
	case err == nil && ref != "":
		_ = c.Cache.Set(ctx, key, []byte(ref), c.TTL)
		return ref, nil
	case err == nil || errors.Is(err, ErrNoImage):
		_ = c.Cache.Set(ctx, key, []byte(noImage), c.TTL)
		return "", ErrNoImage
	}
	return "", err
}

func (c *Cached) key(personID string) string {
	opts := c.Opts
	opts.Values = slices.Clip(opts.Values)
	if p, ok := c.people.Load().ByID(personID); ok {
		for _, v := range []string{p.ImageValue, p.WallPhoto} {
			if v != "" {
				opts.Values = append(opts.Values, v)
			}
		}
	}
	return c.Keyer.ImageKey(personID, opts)
}

// SetPeople records the snapshot used for cache keys and forwards it to
// the wrapped resolver when that reads image values from person records.
func (c *Cached) SetPeople(repo *person.Repository) {
	c.people.Store(repo)
	if s, ok := c.Resolver.(PeopleAware); ok {
		s.SetPeople(repo)
	}
}

// PeopleAware is implemented by resolvers that read person records.
type PeopleAware interface {
	SetPeople(repo *person.Repository)
}

var (
	_ ImageResolver = (*Cached)(nil)
	_ PeopleAware   = (*Cached)(nil)
)
