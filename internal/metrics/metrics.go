// Package metrics exposes Prometheus instrumentation for the shop service.
// All increment methods are nil-receiver safe so callers never have to
// guard against instrumentation being disabled.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	signups       prometheus.Counter
	logins        prometheus.Counter
	refreshes     prometheus.Counter
	authFailures  *prometheus.CounterVec
	featuredHits  prometheus.Counter
	featuredMiss  prometheus.Counter
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// New builds a Metrics instance with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goshop_auth_signups_total",
			Help: "Successful account registrations.",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goshop_auth_logins_total",
			Help: "Successful logins.",
		}),
		refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goshop_auth_refreshes_total",
			Help: "Successful access token refreshes.",
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goshop_auth_failures_total",
			Help: "Authentication failures by reason.",
		}, []string{"reason"}),
		featuredHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goshop_featured_cache_hits_total",
			Help: "Featured product listings served from cache.",
		}),
		featuredMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goshop_featured_cache_misses_total",
			Help: "Featured product listings that fell through to the database.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goshop_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "goshop_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		m.signups, m.logins, m.refreshes, m.authFailures,
		m.featuredHits, m.featuredMiss,
		m.httpRequests, m.httpDurations,
	)
	return m
}

// Handler serves the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDurations.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) IncSignup() {
	if m != nil {
		m.signups.Inc()
	}
}

func (m *Metrics) IncLogin() {
	if m != nil {
		m.logins.Inc()
	}
}

func (m *Metrics) IncRefresh() {
	if m != nil {
		m.refreshes.Inc()
	}
}

func (m *Metrics) IncAuthFailure(reason string) {
	if m != nil {
		m.authFailures.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) IncFeaturedHit() {
	if m != nil {
		m.featuredHits.Inc()
	}
}

func (m *Metrics) IncFeaturedMiss() {
	if m != nil {
		m.featuredMiss.Inc()
	}
}
