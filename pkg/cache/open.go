package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Open creates a cache from a URL:
//
//	""  "none"  "off"          NullCache
//	memory://                  MemoryCache
//	file:///path  /path        FileCache
//	redis://  rediss://        RedisCache
//	mongodb://  mongodb+srv:// MongoCache (database from the URL path)
func Open(ctx context.Context, rawURL string) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(rawURL)) {
	case "", "none", "off":
		return NewNullCache(), nil
	}

	scheme, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return fileCache(rawURL)
	}
	switch strings.ToLower(scheme) {
	case "memory", "mem":
		return NewMemoryCache(), nil
	case "file":
		if rest == "" {
			return nil, fmt.Errorf("%w: file cache needs a path", ErrUnsupportedBackend)
		}
		return fileCache(rest)
	case "redis", "rediss":
		c, err := NewRedisCache(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "mongodb", "mongodb+srv":
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse mongodb url: %w", err)
		}
		c, err := NewMongoCache(ctx, rawURL, strings.TrimPrefix(u.Path, "/"), "")
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, scheme)
}

func fileCache(dir string) (Cache, error) {
	c, err := NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c, nil
}
