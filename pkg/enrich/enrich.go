package enrich

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/lineage/pkg/familytree"
)

// DefaultConcurrency caps in-flight resolver calls when Options leaves it
// unset.
const DefaultConcurrency = 4

// ErrStale is returned when the render that requested enrichment has been
// superseded. The tree is left untouched.
var ErrStale = errors.New("stale render")

// Options configures [Enrich].
type Options struct {
	Concurrency int         // max concurrent resolver calls (default 4)
	Generation  *Generation // optional; results are dropped unless Token is current
	Token       Token
	Logger      *log.Logger
}

// Stats summarizes one enrichment pass.
type Stats struct {
	Nodes    int           // tree nodes visited
	Requests int           // resolver calls issued (one per distinct ID)
	Resolved int           // calls that returned a reference
	Missing  int           // calls that failed or reported no image
	Duration time.Duration // wall time until every call settled
}

type outcome struct {
	ref string
	err error
}

// Enrich resolves an image for every node of root and returns root.
//
// All resolver calls settle before any node is written. Individual failures
// leave the node's ImageURL empty. Enrich returns an error only when the
// render went stale ([ErrStale]) or ctx was cancelled; in both cases the tree
// is unchanged.
func Enrich(ctx context.Context, root *familytree.TreeNode, r ImageResolver, opts Options) (*familytree.TreeNode, Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var stats Stats
	if root == nil || r == nil {
		return root, stats, nil
	}
	if !opts.Generation.IsCurrent(opts.Token) {
		return root, stats, ErrStale
	}

	start := time.Now()
	nodes := root.Flatten()
	stats.Nodes = len(nodes)

	var ids []string
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if !seen[n.ID] {
			seen[n.ID] = true
			ids = append(ids, n.ID)
		}
	}

	var (
		mu      sync.Mutex
		results = make(map[string]outcome, len(ids))
		stale   bool
	)
	var g errgroup.Group
	g.SetLimit(limit)
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		stats.Requests++
		g.Go(func() error {
			ref, err := r.Resolve(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if !opts.Generation.IsCurrent(opts.Token) {
				stale = true
				return nil
			}
			results[id] = outcome{ref: ref, err: err}
			return nil
		})
	}
	_ = g.Wait()
	stats.Duration = time.Since(start)

	if stale || !opts.Generation.IsCurrent(opts.Token) {
		logger.Debug("discarded stale enrichment", "token", opts.Token, "nodes", stats.Nodes)
		return root, stats, ErrStale
	}
	if err := ctx.Err(); err != nil {
		return root, stats, err
	}

	for _, id := range ids {
		o := results[id]
		if o.err != nil || o.ref == "" {
			stats.Missing++
			if o.err != nil && !errors.Is(o.err, ErrNoImage) {
				logger.Debug("image lookup failed", "id", id, "error", o.err)
			}
			continue
		}
		stats.Resolved++
	}
	for _, n := range nodes {
		if o := results[n.ID]; o.err == nil {
			n.ImageURL = o.ref
		}
	}
	return root, stats, nil
}
