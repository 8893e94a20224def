package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// AnalysesTotal counts analysis calls by engine and outcome (ok|empty|parse|service).
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "diagnosmart",
		Subsystem: "analysis",
		Name:      "requests_total",
		Help:      "Total number of report analysis calls, labeled by engine and outcome.",
	}, []string{"engine", "outcome"})

	// AnalysisDurationSeconds is the time spent in one analysis call.
	AnalysisDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "diagnosmart",
		Subsystem: "analysis",
		Name:      "duration_seconds",
		Help:      "Time spent waiting for the external AI service per analysis call.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"engine"})

	// InconsistentTotal counts analyses where overallResult disagrees with parameter statuses.
	InconsistentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "diagnosmart",
		Subsystem: "analysis",
		Name:      "inconsistent_total",
		Help:      "Analyses reported Normal overall while at least one parameter is not Normal.",
	})

	// DoctorLookupsTotal counts doctor-suggestion calls by outcome (ok|empty|failed|skipped).
	DoctorLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "diagnosmart",
		Subsystem: "doctors",
		Name:      "lookups_total",
		Help:      "Total number of doctor-suggestion lookups, labeled by outcome.",
	}, []string{"outcome"})

	// HistoryLoadFailuresTotal counts persisted histories that could not be decoded.
	HistoryLoadFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "diagnosmart",
		Subsystem: "history",
		Name:      "load_failures_total",
		Help:      "Persisted histories dropped because they could not be read or decoded.",
	})

	// HistorySaveFailuresTotal counts failed history writes.
	HistorySaveFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "diagnosmart",
		Subsystem: "history",
		Name:      "save_failures_total",
		Help:      "History writes that failed; the in-memory history is kept.",
	})

	// SessionsActive is the number of sessions held in memory.
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "diagnosmart",
		Subsystem: "app",
		Name:      "sessions_active",
		Help:      "Number of client sessions currently held in memory.",
	})
)

// Register registers the metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalysesTotal,
			AnalysisDurationSeconds,
			InconsistentTotal,
			DoctorLookupsTotal,
			HistoryLoadFailuresTotal,
			HistorySaveFailuresTotal,
			SessionsActive,
		)
	})
}

func ObserveAnalysis(engine, outcome string, d time.Duration) {
	AnalysesTotal.WithLabelValues(engine, outcome).Inc()
	AnalysisDurationSeconds.WithLabelValues(engine).Observe(d.Seconds())
}
