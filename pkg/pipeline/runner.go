package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/enrich"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/familytree"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/integrations"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// CLI, server and browser all use it to avoid duplicating stage logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// snapshots or results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Source DataSource
	Images enrich.ImageResolver // nil disables enrichment
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(src DataSource, images enrich.ImageResolver, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source: src,
		Images: images,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Result contains the outputs of one render.
type Result struct {
	// ID identifies this render in logs and API responses.
	ID string

	// Tree is the built tree. It is nil when the root did not resolve and
	// on cache hits.
	Tree *familytree.TreeNode

	// Layout is the positioned tree with its viewport transform.
	Layout graph.Layout

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the layout came from the cache.
	CacheHit bool
}

// Empty reports whether there was nothing to draw.
func (r *Result) Empty() bool { return r == nil || r.Layout.Empty }

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes      int
	Resolved   int
	Missing    int
	BuildTime  time.Duration
	EnrichTime time.Duration
	LayoutTime time.Duration
}

// Load fetches people from the source and indexes them.
//
// Source failures are returned as NETWORK_ERROR, or TIMEOUT when the
// deadline expired. The image resolver, if it reads person records, is
// pointed at the new snapshot.
func (r *Runner) Load(ctx context.Context, refresh bool) (*Data, error) {
	if r.Source == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no data source configured")
	}
	name := r.Source.Name()
	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, name)

	start := time.Now()
	people, err := r.Source.FetchPeople(ctx, refresh)
	elapsed := time.Since(start)
	hooks.OnFetchComplete(ctx, name, len(people), elapsed, err)
	if err != nil {
		return nil, wrapFetchError(name, err)
	}

	data := NewData(graph.NewSnapshot(name, people, time.Now()))
	if aware, ok := r.Images.(enrich.PeopleAware); ok {
		aware.SetPeople(data.Repo)
	}

	r.Logger.Info("fetched people",
		"source", name,
		"count", data.Repo.Len(),
		"duration", elapsed)
	if refs := data.Repo.Dangling(); len(refs) > 0 {
		r.Logger.Debug("dangling parent references", "count", len(refs))
	}
	return data, nil
}

func wrapFetchError(source string, err error) error {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "fetch people from %s", source)
	case stderrors.Is(err, context.Canceled):
		return err
	case stderrors.Is(err, integrations.ErrRateLimited):
		return errors.Wrap(errors.ErrCodeRateLimited, err, "fetch people from %s", source)
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "fetch people from %s", source)
}

// Render builds, enriches and lays out the tree for opts.Root.
//
// A root that does not resolve yields an empty Result, not an error.
// Errors are invalid options, cancellation, or ErrCodeStaleRender when a
// newer render has been started on opts.Generation.
func (r *Runner) Render(ctx context.Context, data *Data, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if data == nil {
		data = NewData(graph.NewSnapshot("", nil, time.Time{}))
	}

	result := &Result{ID: uuid.NewString()}
	cacheKey := r.Keyer.TreeKey(data.Hash, opts.TreeKeyOpts())

	if !opts.Refresh {
		var cached graph.Layout
		if err := cache.GetJSON(ctx, r.Cache, cacheKey, &cached); err == nil {
			if err := cached.Validate(); err == nil {
				if err := r.checkCurrent(opts); err != nil {
					return nil, err
				}
				cached.ID = result.ID
				result.Layout = cached
				result.Stats.Nodes = len(cached.Nodes)
				result.Stats.Resolved = cached.Resolved
				result.Stats.Missing = cached.Missing
				result.CacheHit = true
				opts.Logger.Debug("layout cache hit", "render", result.ID, "root", opts.Root)
				return result, nil
			}
		}
	}

	// Stage 1: Build
	hooks := observability.Pipeline()
	buildStart := time.Now()
	tree := familytree.Build(opts.Root, data.Repo, opts.TreeOptions())
	result.Tree = tree
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Nodes = tree.Count()
	hooks.OnBuild(ctx, opts.Direction, result.Stats.Nodes, result.Stats.BuildTime)

	if tree == nil {
		opts.Logger.Info("root not found", "render", result.ID, "root", opts.Root)
	} else {
		opts.Logger.Info("built tree",
			"render", result.ID,
			"root", opts.Root,
			"nodes", result.Stats.Nodes,
			"depth", tree.Height())
	}

	// Stage 2: Enrich
	if tree != nil && r.Images != nil && opts.ShouldEnrich() {
		_, st, err := enrich.Enrich(ctx, tree, r.Images, enrich.Options{
			Concurrency: opts.Concurrency,
			Generation:  opts.Generation,
			Token:       opts.Token,
			Logger:      opts.Logger,
		})
		hooks.OnEnrich(ctx, st.Resolved, st.Missing, st.Duration, err)
		if err != nil {
			if stderrors.Is(err, enrich.ErrStale) {
				return nil, errors.Wrap(errors.ErrCodeStaleRender, err, "render %s superseded", opts.Root)
			}
			return nil, err
		}
		result.Stats.Resolved = st.Resolved
		result.Stats.Missing = st.Missing
		result.Stats.EnrichTime = st.Duration
		opts.Logger.Info("enriched tree",
			"render", result.ID,
			"resolved", st.Resolved,
			"missing", st.Missing,
			"duration", st.Duration)
	}

	// Stage 3: Layout
	layoutStart := time.Now()
	res := layout.Compute(tree, opts.LayoutOrientation())
	transform := layout.CenterOn(res.Nodes, opts.Root, opts.ViewportWidth)
	result.Layout = graph.FromResult(res, transform, graph.LayoutMeta{
		ID:           result.ID,
		Root:         opts.Root,
		Direction:    familytree.Direction(opts.Direction),
		MaxDepth:     opts.Depth(),
		SnapshotHash: data.Hash,
	})
	result.Layout.Resolved = result.Stats.Resolved
	result.Layout.Missing = result.Stats.Missing
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayout(ctx, opts.Orientation, len(res.Nodes), result.Stats.LayoutTime)

	if err := r.checkCurrent(opts); err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, r.Cache, cacheKey, result.Layout, cache.TTLTree); err != nil {
		opts.Logger.Debug("layout cache write failed", "error", err)
	}
	return result, nil
}

// checkCurrent reports ErrCodeStaleRender when opts' token was superseded.
func (r *Runner) checkCurrent(opts Options) error {
	if !opts.Generation.IsCurrent(opts.Token) {
		return errors.Wrap(errors.ErrCodeStaleRender, enrich.ErrStale, "render %s superseded", opts.Root)
	}
	return nil
}

// Run loads people and renders a single tree. It is a convenience for
// one-shot callers such as the CLI.
func (r *Runner) Run(ctx context.Context, opts Options) (*Data, *Result, error) {
	data, err := r.Load(ctx, opts.Refresh)
	if err != nil {
		return nil, nil, err
	}
	res, err := r.Render(ctx, data, opts)
	if err != nil {
		return data, nil, fmt.Errorf("render: %w", err)
	}
	return data, res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
