package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics instruments the classification worker and the extraction
// pipeline. Model-call latency is not duplicated here; it lives in the
// durable call log.
type PipelineMetrics struct {
	registry *prometheus.Registry

	classificationsTotal   *prometheus.CounterVec
	classificationDuration prometheus.Histogram
	extractionDuration     prometheus.Histogram
	phaseTwoDegradedTotal  prometheus.Counter
}

func NewPipelineMetrics() *PipelineMetrics {
	return NewPipelineMetricsOn(prometheus.NewRegistry())
}

// NewPipelineMetricsOn registers the collectors on an existing registry so
// the api binary can expose them on its /metrics endpoint alongside the
// HTTP collectors.
func NewPipelineMetricsOn(reg *prometheus.Registry) *PipelineMetrics {
	factory := promauto.With(reg)

	return &PipelineMetrics{
		registry: reg,
		classificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "classifications_total",
			Help:      "Classified documents by resulting type and outcome.",
		}, []string{"document_type", "outcome"}),
		classificationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "classification_duration_seconds",
			Help:      "End-to-end single-document classification latency.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 60, 120},
		}),
		extractionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "extraction_duration_seconds",
			Help:      "End-to-end dossier extraction latency, both phases included.",
			Buckets:   []float64{5, 15, 30, 60, 120, 240, 480, 900},
		}),
		phaseTwoDegradedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "phase_two_degraded_total",
			Help:      "Extractions whose technical phase fell back to an empty record.",
		}),
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) ObserveClassification(docType string, outcome string, elapsed time.Duration) {
	m.classificationsTotal.WithLabelValues(docType, outcome).Inc()
	m.classificationDuration.Observe(elapsed.Seconds())
}

func (m *PipelineMetrics) ObserveExtraction(elapsed time.Duration) {
	m.extractionDuration.Observe(elapsed.Seconds())
}

func (m *PipelineMetrics) PhaseTwoDegraded() {
	m.phaseTwoDegradedTotal.Inc()
}
