package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	AnalysisLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hypermaker",
			Subsystem: "analysis",
			Name:      "latency_seconds",
			Help:      "Latency of analysis provider endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	AnalysisErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hypermaker",
			Subsystem: "analysis",
			Name:      "errors_total",
			Help:      "Errors by analysis provider endpoint",
		},
		[]string{"endpoint"},
	)

	AnalysisPollAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "hypermaker",
			Subsystem: "analysis",
			Name:      "poll_attempts",
			Help:      "Poll attempts used before a provider message arrived",
			Buckets:   []float64{1, 2, 3, 5, 8, 12, 18},
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(AnalysisLatency, AnalysisErrors, AnalysisPollAttempts)
	})
}
