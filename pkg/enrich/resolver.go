package enrich

import (
	"context"
	"errors"
)

// ErrNoImage is returned by resolvers when a person has no image.
var ErrNoImage = errors.New("no image")

// ImageResolver maps a person ID to a displayable image reference.
// Implementations must be safe to call concurrently for distinct IDs.
type ImageResolver interface {
	Resolve(ctx context.Context, personID string) (string, error)
}

// ResolverFunc adapts a function to [ImageResolver].
type ResolverFunc func(ctx context.Context, personID string) (string, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, personID string) (string, error) {
	return f(ctx, personID)
}

// Static resolves from a fixed map. Missing IDs report [ErrNoImage].
type Static map[string]string

// Resolve looks up personID.
func (s Static) Resolve(_ context.Context, personID string) (string, error) {
	if ref, ok := s[personID]; ok && ref != "" {
		return ref, nil
	}
	return "", ErrNoImage
}
