package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "wheelhouse_http_requests_total"
	MetricNameHTTPRequestDuration  = "wheelhouse_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "wheelhouse_http_requests_in_flight"

	MetricNameWheelSpinsTotal     = "wheelhouse_wheel_spins_total"
	MetricNameWheelSpinRefusals   = "wheelhouse_wheel_spin_refusals_total"
	MetricNameWheelCreditsGranted = "wheelhouse_wheel_credits_granted_total"
	MetricNameWheelRewardCoins    = "wheelhouse_wheel_reward_coins"

	MetricNameLedgerCreditsTotal = "wheelhouse_ledger_credits_total"
)

// Help texts
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests currently being served"

	HelpTextWheelSpinsTotal     = "Total number of successful wheel spins"
	HelpTextWheelSpinRefusals   = "Total number of refused spin attempts"
	HelpTextWheelCreditsGranted = "Total number of bonus credits granted"
	HelpTextWheelRewardCoins    = "Distribution of rewards granted per spin"

	HelpTextLedgerCreditsTotal = "Total coins credited through the ledger"
)

// Labels
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelSegment = "segment"
	LabelKind    = "kind"
	LabelReason  = "reason"
)

// HTTPLatencyBuckets covers the expected range for an in-process engine
// behind a single DB round trip.
var HTTPLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
