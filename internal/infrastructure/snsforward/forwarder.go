// Package snsforward relays committed checkout events to an SNS topic for
// consumers outside this service.
package snsforward

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability/logctx"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const peerSNS = "sns"

// API is the slice of the SNS client the forwarder calls.
type API interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Forwarded lists the events relayed by default.
var Forwarded = []string{
	order.OrderCreatedEvent{}.EventName(),
	order.OrderCancelledEvent{}.EventName(),
	invoice.PaymentCompletedEvent{}.EventName(),
	invoice.PaymentFailedEvent{}.EventName(),
	inventory.ShortfallEvent{}.EventName(),
}

type envelope struct {
	EventType   string    `json:"event_type"`
	Key         string    `json:"key,omitempty"`
	Source      string    `json:"source"`
	ForwardedAt time.Time `json:"forwarded_at"`
	Payload     any       `json:"payload"`
}

type Forwarder struct {
	api      API
	topicARN string
	source   string
	log      observability.Logger
	calls    observability.Counter   // external_requests_total{peer,endpoint,outcome}
	latency  observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

// NewClient builds an SNS client from the default AWS credential chain.
func NewClient(ctx context.Context) (*sns.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("sns: load aws config: %w", err)
	}
	return sns.NewFromConfig(cfg), nil
}

func New(api API, topicARN, source string, tel observability.Observability) *Forwarder {
	if tel == nil {
		tel = observability.Nop()
	}
	m := tel.Metrics()
	return &Forwarder{
		api:      api,
		topicARN: topicARN,
		source:   source,
		log:      tel.Logger().With(observability.F("component", "sns_forwarder")),
		calls:    m.Counter(observability.MExternalRequests),
		latency:  m.Histogram(observability.MExternalRequestDuration),
	}
}

// Register subscribes the forwarder to names, or to Forwarded when empty.
func (f *Forwarder) Register(sub domoutbox.Subscriber, names ...string) {
	if len(names) == 0 {
		names = Forwarded
	}
	for _, name := range names {
		sub.Subscribe(name, f.Handle)
	}
}

func (f *Forwarder) Handle(ctx context.Context, e domoutbox.Event) error {
	name := e.EventName()
	body, err := json.Marshal(envelope{
		EventType:   name,
		Key:         domoutbox.KeyOf(e),
		Source:      f.source,
		ForwardedAt: time.Now().UTC(),
		Payload:     e,
	})
	if err != nil {
		return fmt.Errorf("sns: marshal %s: %w", name, err)
	}

	attrs := map[string]types.MessageAttributeValue{
		"event_type": {DataType: aws.String("String"), StringValue: aws.String(name)},
	}
	if key := domoutbox.KeyOf(e); key != "" {
		attrs["order_id"] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(key)}
	}

	start := time.Now()
	_, err = f.api.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(f.topicARN),
		Message:           aws.String(string(body)),
		MessageAttributes: attrs,
	})
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	f.calls.Add(1,
		observability.L("peer", peerSNS),
		observability.L("endpoint", "Publish"),
		observability.L("outcome", outcome),
	)
	f.latency.Observe(time.Since(start).Seconds(),
		observability.L("peer", peerSNS),
		observability.L("endpoint", "Publish"),
	)

	logger := logctx.FromOr(ctx, f.log)
	if err != nil {
		logger.Warn("event_forward_failed",
			observability.F("event", name),
			observability.F("error", err.Error()),
		)
		return fmt.Errorf("sns: publish %s: %w", name, err)
	}
	logger.Debug("event_forwarded", observability.F("event", name))
	return nil
}
