// Package metrics exposes pipeline counters on a private prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PipelineMetrics struct {
	registry *prometheus.Registry

	documentsTotal   *prometheus.CounterVec
	documentDuration *prometheus.HistogramVec
	inFlight         prometheus.Gauge
	fallbackTotal    *prometheus.CounterVec
	fallbackDuration *prometheus.HistogramVec
	fieldsFound      *prometheus.HistogramVec
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "lease",
			Subsystem:   "pipeline",
			Name:        "documents_total",
			Help:        "Processed documents by status and acquisition method.",
			ConstLabels: constLabels,
		},
		[]string{"status", "method"},
	)
	documentDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   "lease",
			Subsystem:   "pipeline",
			Name:        "document_duration_seconds",
			Help:        "Document processing duration in seconds by acquisition method.",
			Buckets:     []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			ConstLabels: constLabels,
		},
		[]string{"method"},
	)
	inFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "lease",
			Subsystem:   "pipeline",
			Name:        "documents_in_flight",
			Help:        "Documents currently being processed.",
			ConstLabels: constLabels,
		},
	)
	fallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "lease",
			Subsystem:   "llm",
			Name:        "fallback_calls_total",
			Help:        "Vehicle-name fallback calls by provider and outcome.",
			ConstLabels: constLabels,
		},
		[]string{"provider", "outcome"},
	)
	fallbackDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   "lease",
			Subsystem:   "llm",
			Name:        "fallback_duration_seconds",
			Help:        "Vehicle-name fallback latency in seconds, retries included.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"provider"},
	)
	fieldsFound := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   "lease",
			Subsystem:   "fields",
			Name:        "found_per_record",
			Help:        "Fields resolved to a value (not the absence sentinel) per record.",
			Buckets:     prometheus.LinearBuckets(0, 2, 7),
			ConstLabels: constLabels,
		},
		[]string{"method"},
	)

	registry.MustRegister(documentsTotal, documentDuration, inFlight, fallbackTotal, fallbackDuration, fieldsFound)

	return &PipelineMetrics{
		registry:         registry,
		documentsTotal:   documentsTotal,
		documentDuration: documentDuration,
		inFlight:         inFlight,
		fallbackTotal:    fallbackTotal,
		fallbackDuration: fallbackDuration,
		fieldsFound:      fieldsFound,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) StartDocument() {
	m.inFlight.Inc()
}

// FinishDocument records one document. method is empty when acquisition failed
// before a strategy was chosen.
func (m *PipelineMetrics) FinishDocument(status, method string, duration time.Duration, found int) {
	m.inFlight.Dec()
	if method == "" {
		method = "unknown"
	}
	m.documentsTotal.WithLabelValues(status, method).Inc()
	m.documentDuration.WithLabelValues(method).Observe(duration.Seconds())
	if found >= 0 {
		m.fieldsFound.WithLabelValues(method).Observe(float64(found))
	}
}

// ObserveFallback implements llm.Observer.
func (m *PipelineMetrics) ObserveFallback(provider, outcome string, seconds float64) {
	m.fallbackTotal.WithLabelValues(provider, outcome).Inc()
	m.fallbackDuration.WithLabelValues(provider).Observe(seconds)
}
