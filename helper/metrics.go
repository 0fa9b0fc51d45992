package helper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons recorded by Metrics.PoemsDropped.
const (
	DropReasonEmpty          = "empty"
	DropReasonExactDuplicate = "exact_duplicate"
	DropReasonNearDuplicate  = "near_duplicate"
)

// Metrics collects the counters of one pipeline run.
// A run is a batch job, so the registry is exported as a node_exporter
// textfile instead of being served. All methods are safe on a nil receiver.
type Metrics struct {
	Registry *prometheus.Registry

	documentsRead   prometheus.Counter
	documentsFailed prometheus.Counter
	poemsDropped    *prometheus.CounterVec
	poemsOutput     prometheus.Gauge
	rowsUploaded    prometheus.Counter
	stageDuration   *prometheus.GaugeVec
}

// NewMetrics creates the metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		documentsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poetry_documents_read_total",
			Help: "Number of source documents read",
		}),
		documentsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poetry_documents_failed_total",
			Help: "Number of source documents that could not be extracted",
		}),
		poemsDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poetry_poems_dropped_total",
				Help: "Number of poems dropped while building the corpus",
			},
			[]string{"reason"},
		),
		poemsOutput: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "poetry_poems",
			Help: "Number of poems in the built corpus",
		}),
		rowsUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poetry_rows_uploaded_total",
			Help: "Number of poems written to the store",
		}),
		stageDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "poetry_stage_duration_seconds",
				Help: "Wall time of the last run of each stage",
			},
			[]string{"stage"},
		),
	}

	m.Registry.MustRegister(
		m.documentsRead,
		m.documentsFailed,
		m.poemsDropped,
		m.poemsOutput,
		m.rowsUploaded,
		m.stageDuration,
	)

	return m
}

// DocumentRead counts a source document that was read and extracted.
func (m *Metrics) DocumentRead() {
	if m == nil {
		return
	}
	m.documentsRead.Inc()
}

// DocumentFailed counts a source document that could not be read or extracted.
func (m *Metrics) DocumentFailed() {
	if m == nil {
		return
	}
	m.documentsFailed.Inc()
}

// PoemsDropped counts n poems removed from the corpus for reason,
// one of the DropReason constants.
func (m *Metrics) PoemsDropped(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.poemsDropped.WithLabelValues(reason).Add(float64(n))
}

// PoemsOutput sets the number of poems in the built corpus.
func (m *Metrics) PoemsOutput(n int) {
	if m == nil {
		return
	}
	m.poemsOutput.Set(float64(n))
}

// RowsUploaded counts n poems written to the store.
func (m *Metrics) RowsUploaded(n int) {
	if m == nil {
		return
	}
	m.rowsUploaded.Add(float64(n))
}

// ObserveStage records the time elapsed since start for stage.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Set(time.Since(start).Seconds())
}

// WriteToTextfile writes all metrics in the text exposition format.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	err := prometheus.WriteToTextfile(path, m.Registry)
	if err != nil {
		return NewError("write metrics", err)
	}
	return nil
}
