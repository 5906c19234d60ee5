package cache

import "errors"

var (
	// ErrCacheMiss is returned by helpers that cannot express a miss through
	// the (data, hit, err) triple, such as [GetJSON].
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnsupportedBackend is returned by [Open] for unknown URL schemes.
	ErrUnsupportedBackend = errors.New("unsupported cache backend")
)
