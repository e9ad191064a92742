package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the screening module.
type Metrics struct {
	// Verdicts by decision ("accepted"/"rejected")
	Verdicts *prometheus.CounterVec

	// Issues raised by rule name
	Issues *prometheus.CounterVec

	// Full evaluation latency
	EvaluateLatency prometheus.Histogram
}

// New creates a Metrics instance with all screening metrics registered.
func New() *Metrics {
	return &Metrics{
		Verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_screening_verdicts_total",
			Help: "Total screening verdicts by decision",
		}, []string{"decision"}),

		Issues: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_screening_issues_total",
			Help: "Total consistency issues raised by rule",
		}, []string{"rule"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dossier_screening_evaluate_duration_seconds",
			Help:    "Duration of a full dossier evaluation",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
	}
}

// IncrementVerdict records one verdict.
func (m *Metrics) IncrementVerdict(accepted bool) {
	if m != nil {
		decision := "rejected"
		if accepted {
			decision = "accepted"
		}
		m.Verdicts.WithLabelValues(decision).Inc()
	}
}

// IncrementIssue records one raised issue.
func (m *Metrics) IncrementIssue(rule string) {
	if m != nil {
		m.Issues.WithLabelValues(rule).Inc()
	}
}

// ObserveEvaluateLatency records the duration of one evaluation.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
