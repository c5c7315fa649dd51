package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "resmon"

// Fetch outcomes used as the "outcome" label.
const (
	OutcomeSuccess   = "success"
	OutcomeStatus    = "http_error"
	OutcomeNoHistory = "no_history"
	OutcomeError     = "error"
)

// Recorder collects per-run counters on a private registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry          *prometheus.Registry
	fetchRequests     *prometheus.CounterVec
	fetchDuration     *prometheus.HistogramVec
	chartsRendered    *prometheus.CounterVec
	timeframesSkipped *prometheus.CounterVec
	lastRun           prometheus.Gauge
}

// NewRecorder creates a recorder with all resmon metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Resource usage requests by resource and outcome.",
		}, []string{"resource", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching one resource, retries included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"resource"}),
		chartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "Charts rendered into the report.",
		}, []string{"resource"}),
		timeframesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timeframes_skipped_total",
			Help:      "Timeframes left out of the report by reason.",
		}, []string{"resource", "reason"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed report run.",
		}),
	}

	r.registry.MustRegister(
		r.fetchRequests,
		r.fetchDuration,
		r.chartsRendered,
		r.timeframesSkipped,
		r.lastRun,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveFetch records one fetch attempt for a resource.
func (r *Recorder) ObserveFetch(resource, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.fetchRequests.WithLabelValues(resource, outcome).Inc()
	r.fetchDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// ChartRendered counts a chart that made it into the report.
func (r *Recorder) ChartRendered(resource string) {
	if r == nil {
		return
	}
	r.chartsRendered.WithLabelValues(resource).Inc()
}

// TimeframeSkipped counts a timeframe dropped for reason.
func (r *Recorder) TimeframeSkipped(resource, reason string) {
	if r == nil {
		return
	}
	r.timeframesSkipped.WithLabelValues(resource, reason).Inc()
}

// MarkRun stamps the completion time of a run.
func (r *Recorder) MarkRun(at time.Time) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile writes the registry in node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
