package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// UsersTotal is the number of registered users, refreshed by the stats collector.
	UsersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "devconnect_users_total",
			Help: "Number of registered users",
		},
	)

	// PostsTotal is the number of posts, refreshed by the stats collector.
	PostsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "devconnect_posts_total",
			Help: "Number of posts",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, UsersTotal, PostsTotal)
	})
}

// NormalizePath reduces label cardinality by replacing numeric path segments with {id}.
func NormalizePath(path string) string {
	for numericPathSegment.MatchString(path) {
		path = numericPathSegment.ReplaceAllString(path, "/{id}$1")
	}
	return path
}

// RecordRequest records one finished HTTP request.
func RecordRequest(method, path string, status int, durationSeconds float64) {
	labels := prometheus.Labels{
		"method": method,
		"path":   NormalizePath(path),
		"status": strconv.Itoa(status),
	}
	RequestDuration.With(labels).Observe(durationSeconds)
	RequestTotal.With(labels).Inc()
}
