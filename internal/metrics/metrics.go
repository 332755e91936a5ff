// Package metrics exposes the Prometheus collectors for the HTTP API and the
// classifier.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API.
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, route, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "faskes_http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "route", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "faskes_http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route", "status"},
	)
	// Classifications counts successful classifications by assigned cluster.
	Classifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "faskes_classifications_total", Help: "Regions classified, by assigned cluster."},
		[]string{"cluster"},
	)
	// ClassificationErrors counts failed classifications by error kind.
	ClassificationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "faskes_classification_errors_total", Help: "Failed classifications, by error kind."},
		[]string{"kind"},
	)
)

var regOnce sync.Once

// RegisterDefault registers every collector on Registry once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(Classifications)
		Registry.MustRegister(ClassificationErrors)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
