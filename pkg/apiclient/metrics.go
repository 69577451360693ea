package apiclient

import (
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasdonena",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total number of TasDoneNa API calls broken down by method, endpoint and result.",
	}, []string{"method", "endpoint", "result"})

	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tasdonena",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for TasDoneNa API calls.",
		Buckets: []float64{
			0.01, 0.025, 0.05, 0.1,
			0.25, 0.5, 1, 2.5,
			5, 10, 30,
		},
	}, []string{"method", "endpoint", "result"})

	idSegment = regexp.MustCompile(`^(\d+|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})$`)
)

// routeTemplate collapses entity ids so label cardinality stays bounded.
func routeTemplate(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	parts := strings.Split(endpoint, "/")
	for i, p := range parts {
		if idSegment.MatchString(p) {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

func resultLabel(status int, err error) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 200 && status < 300 && err == nil:
		return "2xx"
	default:
		return "error"
	}
}

func recordRequestMetrics(method, endpoint, result string, latency time.Duration) {
	labels := prometheus.Labels{
		"method":   method,
		"endpoint": endpoint,
		"result":   result,
	}
	apiRequests.With(labels).Inc()
	apiLatency.With(labels).Observe(latency.Seconds())
}
