package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Wheel Metrics
var (
	WheelSpinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWheelSpinsTotal,
			Help: HelpTextWheelSpinsTotal,
		},
		[]string{LabelSegment, LabelKind},
	)

	WheelSpinRefusals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWheelSpinRefusals,
			Help: HelpTextWheelSpinRefusals,
		},
		[]string{LabelReason},
	)

	WheelCreditsGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameWheelCreditsGranted,
			Help: HelpTextWheelCreditsGranted,
		},
	)

	WheelRewardCoins = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameWheelRewardCoins,
			Help:    HelpTextWheelRewardCoins,
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
		},
	)
)

// Ledger Metrics
var (
	LedgerCreditsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLedgerCreditsTotal,
			Help: HelpTextLedgerCreditsTotal,
		},
	)
)
