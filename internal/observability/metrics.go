package observability

type MetricKey string

const (
	MUsecaseRequests         MetricKey = "usecase_requests_total"
	MUsecaseDuration         MetricKey = "usecase_duration_seconds"
	MHTTPRequests            MetricKey = "http_requests_total"
	MHTTPRequestDuration     MetricKey = "http_request_duration_seconds"
	MExternalRequests        MetricKey = "external_requests_total"
	MExternalRequestDuration MetricKey = "external_request_duration_seconds"
	MInventoryShortfalls     MetricKey = "inventory_shortfall_total"
	MWebhookEvents           MetricKey = "payment_webhook_events_total"
)

type MetricKind int

const (
	KindCounter MetricKind = iota
	KindHistogram
)

// MetricSpec declares one instrument. Buckets only apply to histograms; nil
// means the backend default.
type MetricSpec struct {
	Key     MetricKey
	Kind    MetricKind
	Help    string
	Labels  []string
	Buckets []float64
}

// gatewayBuckets stretch past the default gateway timeout so slow payment
// provider calls are still resolved.
var gatewayBuckets = []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15}

// Catalog is every metric the service emits.
var Catalog = []MetricSpec{
	{Key: MUsecaseRequests, Kind: KindCounter, Help: "Total number of use case invocations.",
		Labels: []string{"use_case", "outcome"}},
	{Key: MUsecaseDuration, Kind: KindHistogram, Help: "Duration of use case execution in seconds.",
		Labels: []string{"use_case"}, Buckets: gatewayBuckets},
	{Key: MHTTPRequests, Kind: KindCounter, Help: "Total number of HTTP requests.",
		Labels: []string{"method", "route", "status"}},
	{Key: MHTTPRequestDuration, Kind: KindHistogram, Help: "HTTP request latency in seconds.",
		Labels: []string{"method", "route", "status"}, Buckets: gatewayBuckets},
	{Key: MExternalRequests, Kind: KindCounter, Help: "Calls made to external peers (payment gateway, event bus, sns).",
		Labels: []string{"peer", "endpoint", "outcome"}},
	{Key: MExternalRequestDuration, Kind: KindHistogram, Help: "Latency of calls to external peers in seconds.",
		Labels: []string{"peer", "endpoint"}, Buckets: gatewayBuckets},
	{Key: MInventoryShortfalls, Kind: KindCounter, Help: "Paid order lines that could not be taken out of stock.",
		Labels: []string{"reason"}},
	{Key: MWebhookEvents, Kind: KindCounter, Help: "Payment webhook deliveries by event type and outcome.",
		Labels: []string{"event_type", "outcome"}},
}
