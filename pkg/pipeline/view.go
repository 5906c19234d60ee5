package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/lineage/pkg/enrich"
	"github.com/matzehuels/lineage/pkg/graph"
)

// View holds the state of an interactive session: the current snapshot,
// the selected root and the latest completed render.
//
// Selecting a root starts a new render generation and cancels the one in
// flight, so a slow enrichment for an old selection can never overwrite a
// newer tree. A View is safe for concurrent use.
type View struct {
	runner *Runner
	data   atomic.Pointer[Data]
	gen    enrich.Generation

	mu     sync.Mutex
	cancel context.CancelFunc
	opts   Options
	last   *Result
}

// NewView returns a view rendering through r.
func NewView(r *Runner) *View {
	v := &View{runner: r}
	v.data.Store(NewData(graph.NewSnapshot("", nil, time.Time{})))
	return v
}

// Data returns the current snapshot.
func (v *View) Data() *Data { return v.data.Load() }

// SetData swaps in a new snapshot. Renders in flight against the old one
// become stale.
func (v *View) SetData(d *Data) {
	if d == nil {
		return
	}
	v.data.Store(d)
	v.mu.Lock()
	v.gen.Next()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.mu.Unlock()
}

// Load fetches a fresh snapshot through the runner and swaps it in.
// On error the current snapshot is kept.
func (v *View) Load(ctx context.Context, refresh bool) (*Data, error) {
	d, err := v.runner.Load(ctx, refresh)
	if err != nil {
		return nil, err
	}
	v.SetData(d)
	return d, nil
}

// Show renders the tree for opts against the current snapshot. The result
// becomes current only if no newer Show or snapshot swap started meanwhile;
// otherwise Show returns a STALE_RENDER error or the cancellation error.
func (v *View) Show(ctx context.Context, opts Options) (*Result, error) {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	token := v.gen.Next()
	v.mu.Unlock()
	defer cancel()

	opts.Generation = &v.gen
	opts.Token = token
	res, err := v.runner.Render(ctx, v.data.Load(), opts)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.gen.IsCurrent(token) {
		return nil, v.runner.checkCurrent(opts)
	}
	v.opts = opts
	v.last = res
	return res, nil
}

// Refresh reloads the snapshot and re-renders the current root.
// Without a previous selection it only reloads.
func (v *View) Refresh(ctx context.Context) (*Result, error) {
	if _, err := v.Load(ctx, true); err != nil {
		return nil, err
	}
	v.mu.Lock()
	opts, ok := v.opts, v.last != nil
	v.mu.Unlock()
	if !ok {
		return nil, nil
	}
	opts.Refresh = false
	return v.Show(ctx, opts)
}

// Current returns the latest completed render, or nil.
func (v *View) Current() *Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

// Root returns the root of the latest completed render.
func (v *View) Root() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.opts.Root
}

// Close cancels any render in flight.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen.Next()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}
