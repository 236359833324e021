// Package metrics provides Prometheus instrumentation for parsing, stage
// validation, evaluation and model calls.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Model call statuses.
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusRateLimited = "rate_limited"
)

// =============================================================================
// PARSE AND VALIDATION METRICS
// =============================================================================

var (
	parseOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfevo_parse_outcomes_total",
			Help: "Structured text parse outcomes by strategy",
		},
		[]string{"strategy"},
	)

	stageVerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfevo_stage_verdicts_total",
			Help: "Stage validation verdicts",
		},
		[]string{"stage", "status"},
	)

	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfevo_evaluations_total",
			Help: "Response evaluations by scoring method",
		},
		[]string{"method"}, // self-report, heuristic, none
	)
)

// =============================================================================
// MODEL METRICS
// =============================================================================

var (
	modelCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfevo_model_calls_total",
			Help: "Chat completion calls",
		},
		[]string{"status"},
	)

	modelCallDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "selfevo_model_call_duration_seconds",
			Help:    "Chat completion call duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)
)

// =============================================================================
// PUBLIC API
// =============================================================================

// RecordParse records which waterfall strategy produced a parse outcome.
func RecordParse(strategy string) {
	parseOutcomesTotal.WithLabelValues(strategy).Inc()
}

// RecordVerdict records a stage validation verdict.
func RecordVerdict(stage, status string) {
	stageVerdictsTotal.WithLabelValues(stage, status).Inc()
}

// RecordEvaluation records the method that produced a score map. Self-report
// methods carry their parse strategy after a colon; only the method family
// is used as the label.
func RecordEvaluation(method string) {
	family, _, _ := strings.Cut(method, ":")
	evaluationsTotal.WithLabelValues(family).Inc()
}

// RecordModelCall records a chat completion call and its latency.
func RecordModelCall(status string, d time.Duration) {
	modelCallsTotal.WithLabelValues(status).Inc()
	modelCallDurationSeconds.Observe(d.Seconds())
}
