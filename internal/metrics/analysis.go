package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Analysis Prometheus metrics.
var (
	AnalysisRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "overlap",
			Name:      "analysis_runs_total",
			Help:      "Total number of analysis runs",
		},
		[]string{"status"}, // "ok" / "invalid" / "cancelled" / "error"
	)

	AnalysisRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "overlap",
			Name:      "analysis_run_duration_seconds",
			Help:      "Analysis run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	AnalysisComparisonsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "overlap",
			Name:      "analysis_comparisons_total",
			Help:      "Total number of scored document pairs",
		},
		[]string{"status"}, // "ok" / "degraded"
	)

	AnalysisDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "overlap",
			Name:      "analysis_documents",
			Help:      "Number of documents in the latest completed run",
		},
	)
)

var registerAnalysis sync.Once

// RegisterAnalysisMetrics registers Prometheus analysis metrics. Must be called once from main.
func RegisterAnalysisMetrics() {
	registerAnalysis.Do(func() {
		prometheus.MustRegister(AnalysisRunsTotal)
		prometheus.MustRegister(AnalysisRunDuration)
		prometheus.MustRegister(AnalysisComparisonsTotal)
		prometheus.MustRegister(AnalysisDocuments)
	})
}
