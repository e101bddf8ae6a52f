// Package stripegw implements payment.Gateway on Stripe hosted checkout.
package stripegw

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/payment"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"
)

const (
	metaInvoiceID = "invoice_id"
	metaOrderID   = "order_id"
)

var hundred = decimal.NewFromInt(100)

type Config struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	Timeout       time.Duration
	// BaseURL overrides the Stripe API endpoint; tests point it at a stub.
	BaseURL string
}

type Gateway struct {
	api           *client.API
	webhookSecret string
	currency      string
}

var _ payment.Gateway = (*Gateway)(nil)

func New(cfg Config) (*Gateway, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe: secret key is required")
	}
	if cfg.WebhookSecret == "" {
		return nil, errors.New("stripe: webhook secret is required")
	}
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	backends := stripe.NewBackends(httpClient)
	if cfg.BaseURL != "" {
		b := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:               stripe.String(cfg.BaseURL),
			HTTPClient:        httpClient,
			MaxNetworkRetries: stripe.Int64(0),
		})
		backends = &stripe.Backends{API: b, Connect: b, Uploads: b}
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, backends)
	return &Gateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		currency:      strings.ToLower(cfg.Currency),
	}, nil
}

func (g *Gateway) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
	}
	params.Context = ctx
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for _, item := range req.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			product.Description = stripe.String(item.Description)
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(g.currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(MinorUnits(item.UnitAmount)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	params.AddMetadata(metaInvoiceID, req.Metadata.InvoiceID)
	params.AddMetadata(metaOrderID, req.Metadata.OrderID)

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return &payment.Session{ID: s.ID, URL: s.URL}, nil
}

func (g *Gateway) GetSession(ctx context.Context, sessionID string) (*payment.SessionDetails, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) && serr.HTTPStatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", payment.ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("stripe: get checkout session: %w", err)
	}
	return details(s), nil
}

func (g *Gateway) VerifyWebhook(payload []byte, signature string) (*payment.Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrInvalidSignature, err)
	}

	out := &payment.Event{ID: evt.ID, Type: payment.EventType(evt.Type)}
	if !strings.HasPrefix(string(evt.Type), "checkout.session.") || evt.Data == nil {
		return out, nil
	}
	var s stripe.CheckoutSession
	if err := json.Unmarshal(evt.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("stripe: decode checkout session from %s: %w", evt.ID, err)
	}
	out.Session = details(&s)
	return out, nil
}

func details(s *stripe.CheckoutSession) *payment.SessionDetails {
	d := &payment.SessionDetails{
		ID:     s.ID,
		URL:    s.URL,
		Status: sessionStatus(s),
		Metadata: payment.Metadata{
			InvoiceID: s.Metadata[metaInvoiceID],
			OrderID:   s.Metadata[metaOrderID],
		},
	}
	if s.PaymentIntent != nil {
		d.PaymentIntentID = s.PaymentIntent.ID
	}
	return d
}

// sessionStatus folds Stripe's status pair into one value: a session is paid
// once funds are captured, whatever its lifecycle status says.
func sessionStatus(s *stripe.CheckoutSession) payment.SessionStatus {
	switch s.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid, stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return payment.SessionPaid
	}
	if s.Status == stripe.CheckoutSessionStatusExpired {
		return payment.SessionExpired
	}
	return payment.SessionOpen
}

// MinorUnits converts a decimal amount to the smallest currency unit (cents).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
