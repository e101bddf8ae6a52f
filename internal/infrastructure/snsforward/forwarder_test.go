package snsforward

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/outbox"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

type fakeSubscriber struct{ names []string }

func (s *fakeSubscriber) Subscribe(name string, h domoutbox.Handler) { s.names = append(s.names, name) }

func TestHandlePublishesEnvelope(t *testing.T) {
	api := &fakeSNS{}
	f := New(api, "arn:aws:sns:us-east-1:123:checkout", "minishop-checkout", nil)

	err := f.Handle(context.Background(), order.OrderCreatedEvent{
		OrderID: "ord-1", UserID: "u-1", CartID: "c-1", Total: decimal.RequireFromString("25.00"),
	})
	require.NoError(t, err)
	require.Len(t, api.inputs, 1)

	in := api.inputs[0]
	assert.Equal(t, "arn:aws:sns:us-east-1:123:checkout", aws.ToString(in.TopicArn))
	assert.Equal(t, "order.created", aws.ToString(in.MessageAttributes["event_type"].StringValue))
	assert.Equal(t, "ord-1", aws.ToString(in.MessageAttributes["order_id"].StringValue))

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(in.Message)), &body))
	assert.Equal(t, "order.created", body["event_type"])
	assert.Equal(t, "minishop-checkout", body["source"])
	assert.Equal(t, "ord-1", body["key"])
	payload := body["payload"].(map[string]any)
	assert.Equal(t, "ord-1", payload["OrderID"])
	assert.Equal(t, "25", payload["Total"])
}

func TestHandleWrapsPublishError(t *testing.T) {
	api := &fakeSNS{err: errors.New("throttled")}
	f := New(api, "arn", "svc", nil)

	err := f.Handle(context.Background(), order.OrderCancelledEvent{OrderID: "ord-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order.cancelled")
}

func TestRegisterDefaultsToForwardedEvents(t *testing.T) {
	sub := &fakeSubscriber{}
	New(&fakeSNS{}, "arn", "svc", nil).Register(sub)
	assert.Equal(t, Forwarded, sub.names)

	sub = &fakeSubscriber{}
	New(&fakeSNS{}, "arn", "svc", nil).Register(sub, "order.created")
	assert.Equal(t, []string{"order.created"}, sub.names)
}
