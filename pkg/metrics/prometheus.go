package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cyclesTotal   *prometheus.CounterVec
	cycleDuration *prometheus.HistogramVec
	ordersPlaced  *prometheus.CounterVec
	ordersSkipped *prometheus.CounterVec
	analysisReqs  *prometheus.CounterVec
	lastMid       *prometheus.GaugeVec
	errorsTotal   *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cyclesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hypermaker_cycles_total",
				Help: "Total number of quoting cycles by result",
			},
			[]string{"result"},
		),
		cycleDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hypermaker_cycle_duration_seconds",
				Help:    "Duration of a full quoting cycle in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"result"},
		),
		ordersPlaced: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hypermaker_orders_placed_total",
				Help: "Total number of orders placed or simulated",
			},
			[]string{"symbol", "side"},
		),
		ordersSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hypermaker_orders_skipped_total",
				Help: "Total number of orders skipped by the sizing rules",
			},
			[]string{"symbol"},
		),
		analysisReqs: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hypermaker_analysis_requests_total",
				Help: "Analysis acquisitions by provider slot and result",
			},
			[]string{"provider", "result"},
		),
		lastMid: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hypermaker_last_mid_price",
				Help: "Last observed mid price for a symbol",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hypermaker_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordCycle records the outcome and duration of one cycle.
func (r *Recorder) RecordCycle(result string, seconds float64) {
	r.cyclesTotal.WithLabelValues(result).Inc()
	r.cycleDuration.WithLabelValues(result).Observe(seconds)
}

// RecordOrderPlaced records an order submitted or simulated for a symbol.
func (r *Recorder) RecordOrderPlaced(symbol, side string) {
	r.ordersPlaced.WithLabelValues(symbol, side).Inc()
}

// RecordOrderSkipped records a symbol skipped by sizing.
func (r *Recorder) RecordOrderSkipped(symbol string) {
	r.ordersSkipped.WithLabelValues(symbol).Inc()
}

// RecordAnalysisRequest records one acquisition attempt outcome.
func (r *Recorder) RecordAnalysisRequest(provider, result string) {
	r.analysisReqs.WithLabelValues(provider, result).Inc()
}

// RecordLastMid records the last mid price for a symbol.
func (r *Recorder) RecordLastMid(symbol string, price float64) {
	r.lastMid.WithLabelValues(symbol).Set(price)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
