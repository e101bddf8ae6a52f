package stripegw

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func sign(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func newGateway(t *testing.T, baseURL string) *Gateway {
	t.Helper()
	g, err := New(Config{SecretKey: "sk_test", WebhookSecret: testSecret, Currency: "USD", BaseURL: baseURL})
	require.NoError(t, err)
	return g
}

func TestNewRequiresSecrets(t *testing.T) {
	_, err := New(Config{WebhookSecret: "x"})
	assert.Error(t, err)
	_, err = New(Config{SecretKey: "x"})
	assert.Error(t, err)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1000), MinorUnits(decimal.RequireFromString("10.00")))
	assert.Equal(t, int64(1999), MinorUnits(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(13), MinorUnits(decimal.RequireFromString("0.125")))
}

func TestCreateSessionSendsLineItemsAndMetadata(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.test/cs_test_1"}`))
	}))
	defer srv.Close()

	g := newGateway(t, srv.URL)
	s, err := g.CreateSession(context.Background(), payment.SessionRequest{
		LineItems: []payment.LineItem{
			{Name: "P", Description: "Acme - Tools", UnitAmount: decimal.RequireFromString("10.00"), Quantity: 2},
			{Name: "Q", UnitAmount: decimal.RequireFromString("5.00"), Quantity: 1},
		},
		SuccessURL:    "https://shop.test/payments/success?session_id={CHECKOUT_SESSION_ID}&invoice_id=inv-1",
		CancelURL:     "https://shop.test/payments/cancel?invoice_id=inv-1",
		CustomerEmail: "a@example.com",
		Metadata:      payment.Metadata{InvoiceID: "inv-1", OrderID: "ord-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", s.ID)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_1", s.URL)

	assert.Equal(t, "payment", form.Get("mode"))
	assert.Equal(t, "usd", form.Get("line_items[0][price_data][currency]"))
	assert.Equal(t, "1000", form.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "2", form.Get("line_items[0][quantity]"))
	assert.Equal(t, "500", form.Get("line_items[1][price_data][unit_amount]"))
	assert.Equal(t, "inv-1", form.Get("metadata[invoice_id]"))
	assert.Equal(t, "ord-1", form.Get("metadata[order_id]"))
	assert.Equal(t, "a@example.com", form.Get("customer_email"))
}

func TestGetSessionStatuses(t *testing.T) {
	bodies := map[string]string{
		"cs_paid":    `{"id":"cs_paid","status":"complete","payment_status":"paid","payment_intent":"pi_1","metadata":{"invoice_id":"inv-1","order_id":"ord-1"}}`,
		"cs_open":    `{"id":"cs_open","status":"open","payment_status":"unpaid"}`,
		"cs_expired": `{"id":"cs_expired","status":"expired","payment_status":"unpaid"}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/v1/checkout/sessions/"):]
		body, ok := bodies[id]
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such checkout.session"}}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()
	g := newGateway(t, srv.URL)

	d, err := g.GetSession(context.Background(), "cs_paid")
	require.NoError(t, err)
	assert.Equal(t, payment.SessionPaid, d.Status)
	assert.Equal(t, "pi_1", d.PaymentIntentID)
	assert.Equal(t, payment.Metadata{InvoiceID: "inv-1", OrderID: "ord-1"}, d.Metadata)

	d, err = g.GetSession(context.Background(), "cs_open")
	require.NoError(t, err)
	assert.Equal(t, payment.SessionOpen, d.Status)

	d, err = g.GetSession(context.Background(), "cs_expired")
	require.NoError(t, err)
	assert.Equal(t, payment.SessionExpired, d.Status)

	_, err = g.GetSession(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, payment.ErrSessionNotFound)
}

func TestVerifyWebhook(t *testing.T) {
	g := newGateway(t, "")
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_1","object":"checkout.session","status":"complete","payment_status":"paid","payment_intent":"pi_9","metadata":{"invoice_id":"inv-1","order_id":"ord-1"}}}}`)

	evt, err := g.VerifyWebhook(payload, sign(payload, testSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", evt.ID)
	assert.Equal(t, payment.EventCheckoutCompleted, evt.Type)
	require.NotNil(t, evt.Session)
	assert.Equal(t, "cs_1", evt.Session.ID)
	assert.Equal(t, payment.SessionPaid, evt.Session.Status)
	assert.Equal(t, "pi_9", evt.Session.PaymentIntentID)
	assert.Equal(t, "inv-1", evt.Session.Metadata.InvoiceID)
}

func TestVerifyWebhookRejectsBadSignature(t *testing.T) {
	g := newGateway(t, "")
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{}}}`)

	_, err := g.VerifyWebhook(payload, sign(payload, "whsec_other", time.Now()))
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)

	_, err = g.VerifyWebhook(payload, "")
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}

func TestVerifyWebhookOtherEventHasNoSession(t *testing.T) {
	g := newGateway(t, "")
	payload := []byte(`{"id":"evt_2","object":"event","type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge"}}}`)

	evt, err := g.VerifyWebhook(payload, sign(payload, testSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, payment.EventType("charge.refunded"), evt.Type)
	assert.Nil(t, evt.Session)
}
