// Package metrics exposes prometheus collectors for store mutations,
// swallowed persistence failures and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/store"
)

const namespace = "hub"

// Recorder owns a private registry so several recorders can coexist in tests.
type Recorder struct {
	registry        *prometheus.Registry
	mutations       *prometheus.CounterVec
	records         *prometheus.GaugeVec
	persistFailures *prometheus.CounterVec
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_mutations_total",
			Help:      "Applied record mutations by kind and operation.",
		}, []string{"kind", "op"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_records",
			Help:      "Number of records held per kind.",
		}, []string{"kind"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Swallowed persistence failures by slot and direction.",
		}, []string{"slot", "direction"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.mutations, r.records, r.persistFailures, r.requests, r.latency,
	)
	return r
}

// Mutated implements store.Observer.
func (r *Recorder) Mutated(kind domain.Kind, op store.ChangeType) {
	r.mutations.WithLabelValues(string(kind), string(op)).Inc()
}

// Size implements store.Observer.
func (r *Recorder) Size(kind domain.Kind, n int) {
	r.records.WithLabelValues(string(kind)).Set(float64(n))
}

// LoadFailed implements persistence.Observer.
func (r *Recorder) LoadFailed(key string) {
	r.persistFailures.WithLabelValues(key, "load").Inc()
}

// SaveFailed implements persistence.Observer.
func (r *Recorder) SaveFailed(key string) {
	r.persistFailures.WithLabelValues(key, "save").Inc()
}

// Middleware records request counts and latency. Unmatched routes share one label.
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		r.requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		r.latency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
