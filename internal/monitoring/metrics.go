package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the Prometheus instrumentation for the API server.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec
	errorCount      *prometheus.CounterVec

	predictionDuration *prometheus.HistogramVec
	predictionCount    *prometheus.CounterVec
	predictedPrice     prometheus.Histogram

	geoLookupCount *prometheus.CounterVec
}

// NewMetrics registers the collectors under the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"handler", "method", "status"},
		),

		requestCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),

		errorCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "error_count_total",
				Help:      "Total number of errors",
			},
			[]string{"type", "code"},
		),

		predictionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "model_prediction_duration_seconds",
				Help:      "Duration of model predictions",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
			[]string{"model"},
		),

		predictionCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_predictions_total",
				Help:      "Total number of model predictions",
			},
			[]string{"model"},
		),

		predictedPrice: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "predicted_price",
				Help:      "Distribution of predicted fares",
				Buckets:   prometheus.ExponentialBuckets(5, 2, 8),
			},
		),

		geoLookupCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "geo_lookups_total",
				Help:      "Google service lookups by kind and cache outcome",
			},
			[]string{"kind", "outcome"},
		),
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(handler, method string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(handler, method, code).Observe(duration.Seconds())
	m.requestCount.WithLabelValues(handler, method, code).Inc()
	if status >= 400 {
		m.errorCount.WithLabelValues("http", code).Inc()
	}
}

// ObservePrediction records one model prediction.
func (m *Metrics) ObservePrediction(model string, price float64, duration time.Duration) {
	m.predictionDuration.WithLabelValues(model).Observe(duration.Seconds())
	m.predictionCount.WithLabelValues(model).Inc()
	m.predictedPrice.Observe(price)
}

// ObserveGeoLookup records a suggestion/distance lookup and whether it hit
// the cache.
func (m *Metrics) ObserveGeoLookup(kind, outcome string) {
	m.geoLookupCount.WithLabelValues(kind, outcome).Inc()
}
