package images

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/enrich"
	"github.com/matzehuels/lineage/pkg/integrations"
	"github.com/matzehuels/lineage/pkg/person"
)

const (
	// DefaultCommonsBase is the wiki that serves Commons files.
	DefaultCommonsBase = "https://commons.wikimedia.org"

	// DefaultWidth is the thumbnail width requested from Commons.
	DefaultWidth = 300

	// MaxGallery bounds the numbered images probed by [Resolver.Gallery].
	MaxGallery = 10

	headTimeout = 5 * time.Second
)

// Extensions lists the local asset extensions probed, in order.
var Extensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// Config controls where images are looked up.
type Config struct {
	CommonsBase string // wiki serving Special:FilePath
	Width       int    // thumbnail width hint
	AssetsDir   string // local directory probed for <id>.<ext>; empty disables
	AssetsURL   string // prefix for local references; defaults to AssetsDir
	SkipVerify  bool   // trust remote values without a HEAD request
}

// Resolver implements [enrich.ImageResolver].
//
// It is safe for concurrent use. The person snapshot may be swapped with
// [Resolver.SetPeople] while resolutions are in flight; each call reads the
// snapshot once.
type Resolver struct {
	*integrations.Client
	cfg    Config
	people atomic.Pointer[person.Repository]
}

// NewResolver creates a resolver reading image values from people.
// A nil repository restricts resolution to local assets.
func NewResolver(people *person.Repository, cfg Config) *Resolver {
	if cfg.CommonsBase == "" {
		cfg.CommonsBase = DefaultCommonsBase
	}
	cfg.CommonsBase = strings.TrimRight(cfg.CommonsBase, "/")
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.AssetsURL == "" {
		cfg.AssetsURL = filepath.ToSlash(cfg.AssetsDir)
	}
	r := &Resolver{
		Client: integrations.NewClient(cache.NewNullCache(), "images:", 0, nil).WithTimeout(headTimeout),
		cfg:    cfg,
	}
	r.SetPeople(people)
	return r
}

// SetPeople replaces the snapshot image values are read from.
func (r *Resolver) SetPeople(people *person.Repository) {
	r.people.Store(people)
}

// Options returns the cache options that distinguish this resolver's
// answers from those of differently configured resolvers.
func (r *Resolver) Options() cache.ImageKeyOpts {
	return cache.ImageKeyOpts{Width: r.cfg.Width, Source: r.cfg.CommonsBase + "|" + r.cfg.AssetsDir}
}

// Resolve returns the best image reference for personID or
// [enrich.ErrNoImage]. Transport failures while verifying a remote value
// are returned so that callers do not cache them as misses.
func (r *Resolver) Resolve(ctx context.Context, personID string) (string, error) {
	var transient error
	for _, raw := range r.values(personID) {
		ref := CommonsURL(raw, r.cfg.CommonsBase, r.cfg.Width)
		if ref == "" {
			continue
		}
		if r.cfg.SkipVerify {
			return ref, nil
		}
		ok, err := r.Exists(ctx, ref)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			transient = err
			continue
		}
		if ok {
			return ref, nil
		}
	}

	if ref, ok := r.local(personID); ok {
		return ref, nil
	}
	if transient != nil {
		return "", fmt.Errorf("verify image for %s: %w", personID, transient)
	}
	return "", enrich.ErrNoImage
}

// Gallery lists every image for personID: the resolved main image followed
// by local assets <id>_1 through <id>_10, stopping at the first gap.
func (r *Resolver) Gallery(ctx context.Context, personID string) ([]string, error) {
	var out []string
	main, err := r.Resolve(ctx, personID)
	switch {
	case err == nil:
		out = append(out, main)
	case !errors.Is(err, enrich.ErrNoImage):
		return nil, err
	}
	for i := 1; i <= MaxGallery; i++ {
		ref, ok := r.local(personID + "_" + strconv.Itoa(i))
		if !ok {
			break
		}
		out = append(out, ref)
	}
	return out, nil
}

// values returns the person's non-empty image values, primary first.
func (r *Resolver) values(personID string) []string {
	p, ok := r.people.Load().ByID(personID)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range []string{p.ImageValue, p.WallPhoto} {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// local probes the assets directory for name with each known extension.
func (r *Resolver) local(name string) (string, bool) {
	if r.cfg.AssetsDir == "" || name == "" || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	for _, ext := range Extensions {
		fi, err := os.Stat(filepath.Join(r.cfg.AssetsDir, name+ext))
		if err == nil && fi.Mode().IsRegular() {
			return joinRef(r.cfg.AssetsURL, name+ext), true
		}
	}
	return "", false
}

func joinRef(prefix, name string) string {
	if prefix = strings.TrimRight(prefix, "/"); prefix == "" {
		return name
	}
	return prefix + "/" + name
}

var _ enrich.ImageResolver = (*Resolver)(nil)
