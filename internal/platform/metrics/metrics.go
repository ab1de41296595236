package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	NeedsReceived   *prometheus.CounterVec
	NeedsSolved     *prometheus.CounterVec
	NeedsFailed     *prometheus.CounterVec
	NeedsSkipped    *prometheus.CounterVec
	BuildDuration   prometheus.Histogram
	RenderDuration  *prometheus.HistogramVec
	ConvertDuration prometheus.Histogram
	DocumentBytes   *prometheus.HistogramVec
}

// New creates and registers all metrics on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		NeedsReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "soknadpdf_needs_received_total",
			Help: "Needs received from the message bus",
		}, []string{"need"}),
		NeedsSolved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "soknadpdf_needs_solved_total",
			Help: "Needs answered with a solution",
		}, []string{"need"}),
		NeedsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "soknadpdf_needs_failed_total",
			Help: "Needs that failed, by error category",
		}, []string{"need", "category"}),
		NeedsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "soknadpdf_needs_skipped_total",
			Help: "Needs skipped because the submission is on the skip list",
		}, []string{"need"}),
		BuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "soknadpdf_build_duration_seconds",
			Help:    "Time spent building the submission model from fetched inputs",
			Buckets: prometheus.DefBuckets,
		}),
		RenderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "soknadpdf_render_duration_seconds",
			Help:    "Time spent rendering markup",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5},
		}, []string{"mode"}),
		ConvertDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "soknadpdf_convert_duration_seconds",
			Help:    "Time spent converting markup to PDF/A",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		DocumentBytes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "soknadpdf_document_bytes",
			Help:    "Size of produced PDF documents",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10),
		}, []string{"variant"}),
	}
}

// IncrementReceived counts an incoming need.
func (m *Metrics) IncrementReceived(need string) {
	m.NeedsReceived.WithLabelValues(need).Inc()
}

// IncrementSolved counts a published solution.
func (m *Metrics) IncrementSolved(need string) {
	m.NeedsSolved.WithLabelValues(need).Inc()
}

// IncrementFailed counts a failed need.
func (m *Metrics) IncrementFailed(need, category string) {
	m.NeedsFailed.WithLabelValues(need, category).Inc()
}

// IncrementSkipped counts a skipped need.
func (m *Metrics) IncrementSkipped(need string) {
	m.NeedsSkipped.WithLabelValues(need).Inc()
}

// ObserveBuild records how long building the submission took.
func (m *Metrics) ObserveBuild(d time.Duration) {
	m.BuildDuration.Observe(d.Seconds())
}

// ObserveRender records render time per mode.
func (m *Metrics) ObserveRender(mode string, d time.Duration) {
	m.RenderDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// ObserveConvert records conversion time.
func (m *Metrics) ObserveConvert(d time.Duration) {
	m.ConvertDuration.Observe(d.Seconds())
}

// ObserveDocument records the size of a produced document.
func (m *Metrics) ObserveDocument(variant string, size int) {
	m.DocumentBytes.WithLabelValues(variant).Observe(float64(size))
}
