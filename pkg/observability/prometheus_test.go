package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnFetchComplete(ctx, "wikibase", 42, time.Second, nil)
	h.OnFetchComplete(ctx, "wikibase", 0, time.Second, errors.New("timeout"))
	if got := testutil.ToFloat64(h.fetchTotal.WithLabelValues("wikibase", "ok")); got != 1 {
		t.Errorf("fetch ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.fetchTotal.WithLabelValues("wikibase", "error")); got != 1 {
		t.Errorf("fetch error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.fetchPeople); got != 42 {
		t.Errorf("people loaded = %v, want 42", got)
	}

	h.OnBuild(ctx, "ancestors", 7, time.Millisecond)
	h.OnBuild(ctx, "ancestors", 0, time.Millisecond)
	if got := testutil.ToFloat64(h.buildTotal.WithLabelValues("ancestors", "absent")); got != 1 {
		t.Errorf("absent builds = %v, want 1", got)
	}

	h.OnEnrich(ctx, 5, 2, time.Second, nil)
	h.OnEnrich(ctx, 0, 0, time.Second, errors.New("stale"))
	if got := testutil.ToFloat64(h.enrichImages.WithLabelValues("resolved")); got != 5 {
		t.Errorf("resolved images = %v, want 5", got)
	}
	if got := testutil.ToFloat64(h.enrichTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("failed enrich passes = %v, want 1", got)
	}

	h.OnCacheHit(ctx, "tree")
	h.OnCacheMiss(ctx, "tree")
	h.OnCacheSet(ctx, "tree", 100)
	if got := testutil.ToFloat64(h.cacheBytes.WithLabelValues("tree")); got != 100 {
		t.Errorf("cache bytes = %v, want 100", got)
	}

	h.OnResponse(ctx, "GET", "query.wikidata.org", "/sparql", 200, time.Second)
	h.OnError(ctx, "GET", "query.wikidata.org", "/sparql", errors.New("reset"))
	if got := testutil.ToFloat64(h.httpRequests.WithLabelValues("GET", "query.wikidata.org", "200")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}

	if n, err := testutil.GatherAndCount(reg); err != nil || n == 0 {
		t.Errorf("GatherAndCount = %d, %v", n, err)
	}
}

func TestPrometheusHooksRegisterAsGlobal(t *testing.T) {
	defer Reset()
	h := NewPrometheusHooks(prometheus.NewRegistry())
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
	if Pipeline() != PipelineHooks(h) || Cache() != CacheHooks(h) || HTTP() != HTTPHooks(h) {
		t.Error("PrometheusHooks should be usable as global hooks")
	}
}
