package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameCartMutations      = "cart_mutations_total"
	MetricNameCheckouts          = "checkouts_total"
	MetricNameGameSaves          = "admin_game_saves_total"
	MetricNameBackendFailures    = "backend_failures_total"
	MetricNamePollResultsDropped = "poll_results_dropped_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Business metric help text
const (
	HelpTextCartMutations      = "Total number of cart mutations"
	HelpTextCheckouts          = "Total number of checkout submissions"
	HelpTextGameSaves          = "Total number of admin game saves"
	HelpTextBackendFailures    = "Total number of failed calls to the core platform"
	HelpTextPollResultsDropped = "Total number of stale poll results dropped"
)

// ============================================================================
// Metric Labels
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelPoller    = "poller"
)

// HTTPLatencyBuckets covers the latency range of a service that proxies a
// remote platform: sub-millisecond cache hits up to multi-second upstream
// calls.
var HTTPLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
