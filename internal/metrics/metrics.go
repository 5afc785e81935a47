package metrics

import (
	"net/http"

	"github.com/limaJavier/studyplan/pkg/planner"
	"github.com/limaJavier/studyplan/pkg/sat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace   = "studyplan"
	StatusLabel = "status"
	Outcome     = "outcome"
)

// Recorder tracks the progress of enumerations. It is a planner.Observer.
type Recorder struct {
	registry *prometheus.Registry

	checks       *prometheus.CounterVec
	solutions    prometheus.Gauge
	distinct     prometheus.Gauge
	enumerations *prometheus.CounterVec
}

var _ planner.Observer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	recorder := &Recorder{
		registry: prometheus.NewRegistry(),
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checks_total",
				Help:      "Satisfiability checks issued, by their status",
			},
			[]string{StatusLabel},
		),
		solutions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "raw_solutions",
				Help:      "Solutions found by the running enumeration, before deduplication",
			},
		),
		distinct: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "distinct_solutions",
				Help:      "Distinct plans left by the last finished enumeration",
			},
		),
		enumerations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "enumerations_total",
				Help:      "Finished enumerations, by their outcome",
			},
			[]string{Outcome},
		),
	}
	recorder.registry.MustRegister(
		recorder.checks,
		recorder.solutions,
		recorder.distinct,
		recorder.enumerations,
		collectors.NewGoCollector(),
	)
	return recorder
}

func (recorder *Recorder) Checked(status sat.Status) {
	recorder.checks.WithLabelValues(status.String()).Inc()
}

func (recorder *Recorder) SolutionFound(count int) {
	recorder.solutions.Set(float64(count))
}

// Finished records how an enumeration ended
func (recorder *Recorder) Finished(result planner.Result) {
	recorder.enumerations.WithLabelValues(result.Outcome.String()).Inc()
	recorder.solutions.Set(float64(result.Raw))
	recorder.distinct.Set(float64(result.Distinct))
}

func (recorder *Recorder) Registry() *prometheus.Registry {
	return recorder.registry
}

// Handler serves the recorded metrics in the Prometheus exposition format
func (recorder *Recorder) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(recorder.registry, promhttp.HandlerOpts{}))
	return mux
}
