package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements every hook interface with Prometheus metrics.
type PrometheusHooks struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	fetchPeople   prometheus.Gauge

	buildTotal *prometheus.CounterVec
	treeNodes  prometheus.Histogram

	enrichTotal    *prometheus.CounterVec
	enrichImages   *prometheus.CounterVec
	enrichDuration prometheus.Histogram

	layoutDuration *prometheus.HistogramVec

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// NewPrometheusHooks registers lineage metrics with reg and returns hooks
// that update them. Passing nil uses prometheus.DefaultRegisterer.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &PrometheusHooks{
		fetchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_fetch_total",
			Help: "People fetches by source and outcome",
		}, []string{"source", "outcome"}),
		fetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lineage_fetch_duration_seconds",
			Help:    "Time spent fetching people from the data source",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		fetchPeople: f.NewGauge(prometheus.GaugeOpts{
			Name: "lineage_people_loaded",
			Help: "People in the most recently loaded snapshot",
		}),
		buildTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_tree_builds_total",
			Help: "Tree builds by direction and outcome",
		}, []string{"direction", "outcome"}),
		treeNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lineage_tree_nodes",
			Help:    "Nodes per built tree",
			Buckets: []float64{1, 3, 7, 15, 31, 63, 127, 255},
		}),
		enrichTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_enrich_total",
			Help: "Enrichment passes by outcome",
		}, []string{"outcome"}),
		enrichImages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_enrich_images_total",
			Help: "Image lookups by result",
		}, []string{"result"}),
		enrichDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lineage_enrich_duration_seconds",
			Help:    "Time until every image lookup of a tree settled",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		layoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lineage_layout_duration_seconds",
			Help:    "Layout computation time by orientation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"orientation"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_cache_operations_total",
			Help: "Cache operations by key type and result",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type",
		}, []string{"key_type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_http_client_requests_total",
			Help: "Outgoing HTTP requests by host and status",
		}, []string{"method", "host", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lineage_http_client_duration_seconds",
			Help:    "Outgoing HTTP request latency by host",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "host"}),
		httpErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_http_client_errors_total",
			Help: "Outgoing HTTP requests that failed without a response",
		}, []string{"method", "host"}),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnFetchStart(context.Context, string) {}

func (h *PrometheusHooks) OnFetchComplete(_ context.Context, source string, people int, d time.Duration, err error) {
	h.fetchTotal.WithLabelValues(source, outcome(err)).Inc()
	h.fetchDuration.Observe(d.Seconds())
	if err == nil {
		h.fetchPeople.Set(float64(people))
	}
}

func (h *PrometheusHooks) OnBuild(_ context.Context, direction string, nodes int, _ time.Duration) {
	if nodes == 0 {
		h.buildTotal.WithLabelValues(direction, "absent").Inc()
		return
	}
	h.buildTotal.WithLabelValues(direction, "ok").Inc()
	h.treeNodes.Observe(float64(nodes))
}

func (h *PrometheusHooks) OnEnrich(_ context.Context, resolved, missing int, d time.Duration, err error) {
	h.enrichTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return
	}
	h.enrichImages.WithLabelValues("resolved").Add(float64(resolved))
	h.enrichImages.WithLabelValues("missing").Add(float64(missing))
	h.enrichDuration.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnLayout(_ context.Context, orientation string, _ int, d time.Duration) {
	h.layoutDuration.WithLabelValues(orientation).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, host, _ string, status int, d time.Duration) {
	h.httpRequests.WithLabelValues(method, host, strconv.Itoa(status)).Inc()
	h.httpDuration.WithLabelValues(method, host).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnError(_ context.Context, method, host, _ string, _ error) {
	h.httpErrors.WithLabelValues(method, host).Inc()
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
