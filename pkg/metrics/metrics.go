package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
	ErrorTotal      *prometheus.CounterVec

	// Dataset metrics
	DatasetGenerations        prometheus.Counter
	DatasetGenerationDuration prometheus.Histogram
	DatasetRecords            prometheus.Gauge
	DatasetCacheLookups       *prometheus.CounterVec

	// Filter & aggregate metrics
	FilterDuration  prometheus.Histogram
	FilteredRecords prometheus.Histogram

	// Event metrics
	EventsPublished *prometheus.CounterVec
}

// New creates all application metrics and registers them with reg.
// A nil reg registers nothing, which keeps tests free of global state.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"method", "path", "status"}),
		RequestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		ErrorTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total number of HTTP errors",
		}, []string{"method", "path", "type"}),

		DatasetGenerations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "generations_total",
			Help:      "Total number of synthetic dataset generations",
		}),
		DatasetGenerationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "generation_duration_seconds",
			Help:      "Time spent generating a synthetic dataset",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		DatasetRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "records",
			Help:      "Number of records in the most recently generated dataset",
		}),
		DatasetCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "cache_lookups_total",
			Help:      "Dataset cache lookups by result",
		}, []string{"result"}),

		FilterDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "filter_duration_seconds",
			Help:      "Time spent filtering and aggregating the dataset",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		}),
		FilteredRecords: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "filtered_records",
			Help:      "Number of records passing the filters per request",
			Buckets:   []float64{0, 10, 50, 100, 250, 500, 750, 1000, 2500},
		}),

		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Dashboard events handed to the broker by status",
		}, []string{"event_type", "status"}),
	}
}

// NewNop returns unregistered metrics for callers that do not export them.
func NewNop() *Metrics {
	return New("", nil)
}
