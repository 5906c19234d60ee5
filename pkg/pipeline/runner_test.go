package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/enrich"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/person"
)

type fakeSource struct {
	people []person.Person
	err    error
	calls  atomic.Int32
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) FetchPeople(ctx context.Context, _ bool) ([]person.Person, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.people, nil
}

type countingResolver struct {
	refs  map[string]string
	calls atomic.Int32

	mu   sync.Mutex
	repo *person.Repository
}

func (r *countingResolver) Resolve(_ context.Context, id string) (string, error) {
	r.calls.Add(1)
	if ref, ok := r.refs[id]; ok {
		return ref, nil
	}
	return "", enrich.ErrNoImage
}

func (r *countingResolver) SetPeople(repo *person.Repository) {
	r.mu.Lock()
	r.repo = repo
	r.mu.Unlock()
}

func family() []person.Person {
	return []person.Person{
		{ID: "Q1", Name: "John Smith", FatherID: "Q3", MotherID: "Q4", BirthDate: "+1950-05-15T00:00:00Z"},
		{ID: "Q2", Name: "Jane Smith"},
		{ID: "Q3", Name: "Robert Smith"},
		{ID: "Q4", Name: "Mary Jones"},
		{ID: "Q5", Name: "Tom Smith", FatherID: "Q1", MotherID: "Q2"},
	}
}

func newTestRunner(c cache.Cache) (*Runner, *fakeSource, *countingResolver) {
	src := &fakeSource{people: family()}
	res := &countingResolver{refs: map[string]string{"Q1": "q1.jpg", "Q3": "q3.jpg"}}
	return NewRunner(src, res, c, nil, nil), src, res
}

func TestRunnerRenderAncestors(t *testing.T) {
	r, _, resolver := newTestRunner(nil)
	ctx := context.Background()
	data, err := r.Load(ctx, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolver.repo != data.Repo {
		t.Error("Load should hand the snapshot to the resolver")
	}

	res, err := r.Render(ctx, data, Options{Root: "Q1", ViewportWidth: 1000})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Empty() || res.ID == "" {
		t.Fatalf("result = %+v", res)
	}
	l := res.Layout
	if len(l.Nodes) != 3 || len(l.Edges) != 2 {
		t.Fatalf("layout has %d nodes, %d edges", len(l.Nodes), len(l.Edges))
	}
	if l.Nodes[0].ID != "Q1" || l.Nodes[0].BirthYear != "1950" {
		t.Errorf("root node = %+v", l.Nodes[0])
	}
	root := l.Nodes[0]
	if got, want := l.Viewport.TranslateX, 500-root.X; got != want {
		t.Errorf("TranslateX = %v, want %v", got, want)
	}
	if l.Viewport.TranslateY != 20 || l.Viewport.Scale != 1 {
		t.Errorf("viewport = %+v", l.Viewport)
	}
	if res.Stats.Resolved != 2 || res.Stats.Missing != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if n, _ := l.Node("Q3"); n.ImageURL != "q3.jpg" {
		t.Errorf("Q3 image = %q", n.ImageURL)
	}
	if l.SnapshotHash != data.Hash {
		t.Error("layout should record the snapshot hash")
	}
}

func TestRunnerRenderMissingRoot(t *testing.T) {
	r, _, resolver := newTestRunner(nil)
	data, _ := r.Load(context.Background(), false)

	res, err := r.Render(context.Background(), data, Options{Root: "Q999"})
	if err != nil {
		t.Fatalf("missing root should not be an error: %v", err)
	}
	if !res.Empty() || res.Tree != nil {
		t.Errorf("result = %+v, want empty", res)
	}
	if resolver.calls.Load() != 0 {
		t.Error("resolver called for an empty tree")
	}
	if res.Layout.Viewport.Scale != 1 || res.Layout.Viewport.TranslateX != 0 {
		t.Errorf("empty viewport = %+v, want identity", res.Layout.Viewport)
	}
}

func TestRunnerRenderNilData(t *testing.T) {
	r, _, _ := newTestRunner(nil)
	res, err := r.Render(context.Background(), nil, Options{Root: "Q1"})
	if err != nil || !res.Empty() {
		t.Errorf("Render(nil data) = %+v, %v", res, err)
	}
}

func TestRunnerRenderCached(t *testing.T) {
	r, _, resolver := newTestRunner(cache.NewMemoryCache())
	ctx := context.Background()
	data, _ := r.Load(ctx, false)

	first, err := r.Render(ctx, data, Options{Root: "Q1"})
	if err != nil || first.CacheHit {
		t.Fatalf("first render: hit=%v err=%v", first.CacheHit, err)
	}
	calls := resolver.calls.Load()

	second, err := r.Render(ctx, data, Options{Root: "Q1"})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second render should hit the cache")
	}
	if second.ID == first.ID {
		t.Error("cache hit should carry a fresh render ID")
	}
	if resolver.calls.Load() != calls {
		t.Error("cache hit called the resolver")
	}
	if len(second.Layout.Nodes) != len(first.Layout.Nodes) || second.Stats.Resolved != first.Stats.Resolved {
		t.Errorf("cached layout differs: %+v vs %+v", second.Layout, first.Layout)
	}

	third, _ := r.Render(ctx, data, Options{Root: "Q1", Refresh: true})
	if third.CacheHit {
		t.Error("Refresh should bypass the cache")
	}
	other, _ := r.Render(ctx, data, Options{Root: "Q1", Direction: "descendants"})
	if other.CacheHit {
		t.Error("different options should not share a cache entry")
	}
}

func TestRunnerRenderSkipImages(t *testing.T) {
	r, _, resolver := newTestRunner(nil)
	data, _ := r.Load(context.Background(), false)
	res, err := r.Render(context.Background(), data, Options{Root: "Q1", SkipImages: true})
	if err != nil {
		t.Fatal(err)
	}
	if resolver.calls.Load() != 0 || res.Layout.Nodes[0].ImageURL != "" {
		t.Error("SkipImages still enriched the tree")
	}
}

func TestRunnerRenderDepthZero(t *testing.T) {
	r, _, _ := newTestRunner(nil)
	data, _ := r.Load(context.Background(), false)

	tests := []struct {
		name      string
		depth     *int
		wantNodes int
		wantDepth int
	}{
		{"unset uses default", nil, 3, DefaultMaxDepth},
		{"zero is the root alone", Depth(0), 1, 0},
		{"one", Depth(1), 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Render(context.Background(), data, Options{Root: "Q1", MaxDepth: tt.depth, SkipImages: true})
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Layout.Nodes) != tt.wantNodes || res.Layout.MaxDepth != tt.wantDepth {
				t.Errorf("nodes = %d, max_depth = %d; want %d, %d",
					len(res.Layout.Nodes), res.Layout.MaxDepth, tt.wantNodes, tt.wantDepth)
			}
		})
	}
}

func TestRunnerRenderDescendants(t *testing.T) {
	r, _, _ := newTestRunner(nil)
	data, _ := r.Load(context.Background(), false)
	res, err := r.Render(context.Background(), data, Options{Root: "Q2", Direction: "descendants"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Layout.Edges) != 1 || res.Layout.Edges[0] != (graph.Edge{From: "Q2", To: "Q5"}) {
		t.Errorf("edges = %+v", res.Layout.Edges)
	}
}

func TestRunnerRenderStale(t *testing.T) {
	r, _, _ := newTestRunner(nil)
	data, _ := r.Load(context.Background(), false)

	var gen enrich.Generation
	old := gen.Next()
	gen.Next()
	_, err := r.Render(context.Background(), data, Options{Root: "Q1", Generation: &gen, Token: old})
	if !errors.Is(err, errors.ErrCodeStaleRender) {
		t.Errorf("err = %v, want STALE_RENDER", err)
	}
}

func TestRunnerLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code errors.Code
	}{
		{"Network", fmt.Errorf("dial tcp: connection refused"), errors.ErrCodeNetwork},
		{"Timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), errors.ErrCodeTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(&fakeSource{err: tt.err}, nil, nil, nil, nil)
			_, err := r.Load(context.Background(), false)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}

	r := NewRunner(nil, nil, nil, nil, nil)
	if _, err := r.Load(context.Background(), false); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("nil source: %v", err)
	}
}

func TestRunnerRun(t *testing.T) {
	r, src, _ := newTestRunner(nil)
	data, res, err := r.Run(context.Background(), Options{Root: "Q1"})
	if err != nil {
		t.Fatal(err)
	}
	if data.Repo.Len() != 5 || res.Empty() || src.calls.Load() != 1 {
		t.Errorf("Run: %d people, empty=%v, calls=%d", data.Repo.Len(), res.Empty(), src.calls.Load())
	}

	if _, _, err := r.Run(context.Background(), Options{}); err == nil {
		t.Error("Run with empty root should fail validation")
	}
}

func TestArtifacts(t *testing.T) {
	r, _, _ := newTestRunner(nil)
	_, res, err := r.Run(context.Background(), Options{Root: "Q1", SkipImages: true})
	if err != nil {
		t.Fatal(err)
	}
	out, err := Artifacts(res.Layout, []string{FormatJSON, FormatDOT}, false)
	if err != nil {
		t.Fatalf("Artifacts: %v", err)
	}
	if !strings.Contains(string(out[FormatJSON]), `"root": "Q1"`) {
		t.Errorf("json artifact = %s", out[FormatJSON])
	}
	if !strings.Contains(string(out[FormatDOT]), `"Q1" -- "Q3"`) {
		t.Errorf("dot artifact = %s", out[FormatDOT])
	}

	if _, err := Artifacts(res.Layout, []string{FormatText}, false); err == nil {
		t.Error("text should be rejected")
	}
	if _, err := Artifacts(res.Layout, []string{"gif"}, false); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("gif: %v", err)
	}
}
