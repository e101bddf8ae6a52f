package httppresentation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	appcart "github.com/Zhima-Mochi/minishop-checkout/app/internal/application/cart"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application/checkout"
	appinvoice "github.com/Zhima-Mochi/minishop-checkout/app/internal/application/invoice"
	apporder "github.com/Zhima-Mochi/minishop-checkout/app/internal/application/order"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/identity"
	dominv "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/payment"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/id"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/memory"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	mu        sync.Mutex
	sessions  map[string]*payment.SessionDetails
	createErr error
}

func (g *stubGateway) CreateSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	sid := "cs_" + req.Metadata.InvoiceID
	g.sessions[sid] = &payment.SessionDetails{ID: sid, Status: payment.SessionOpen, Metadata: req.Metadata}
	return &payment.Session{ID: sid, URL: "https://pay.example.test/" + sid}, nil
}

func (g *stubGateway) GetSession(_ context.Context, sid string) (*payment.SessionDetails, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[sid]
	if !ok {
		return nil, payment.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (g *stubGateway) VerifyWebhook(payload []byte, signature string) (*payment.Event, error) {
	if signature != "good" {
		return nil, payment.ErrInvalidSignature
	}
	return &payment.Event{ID: "evt_1", Type: "customer.created"}, nil
}

func (g *stubGateway) markPaid(sid string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[sid].Status = payment.SessionPaid
	g.sessions[sid].PaymentIntentID = "pi_1"
}

type testServer struct {
	router  *gin.Engine
	gateway *stubGateway
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	users := memory.NewDirectory(identity.User{ID: "u-1", Email: "a@example.com", Active: true})
	products := memory.NewCatalog(
		catalog.Product{ID: "P", Name: "Lamp", Price: decimal.RequireFromString("10.00"), Active: true},
		catalog.Product{ID: "Q", Name: "Bulb", Price: decimal.RequireFromString("5.00"), Active: true},
	)
	for pid, qty := range map[string]int{"P": 5, "Q": 0} {
		s, err := dominv.NewStock(pid, qty, "main")
		require.NoError(t, err)
		store.PutStock(s)
	}
	gw := &stubGateway{sessions: map[string]*payment.SessionDetails{}}
	ids := id.NewUUIDGenerator()

	co := checkout.New(checkout.Dependencies{
		UnitOfWork: store,
		Gateway:    gw,
		Users:      users,
		Catalog:    products,
		IDs:        ids,
		Config:     checkout.Config{PublicBaseURL: "http://localhost:8080", GatewayTimeout: time.Second},
	})
	h := NewHandler(Services{
		Carts:    appcart.NewService(store, users, products, ids, nil),
		Orders:   apporder.NewService(store, nil),
		Invoices: appinvoice.NewService(store, nil),
		Checkout: co,
	}, nil, opts)
	return &testServer{router: h.Router(), gateway: gw}
}

func (s *testServer) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := srv.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := srv.do(t, http.MethodGet, "/users/u-1/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[cartResponse](t, rec)

	rec = srv.do(t, http.MethodPost, "/carts/"+cart.ID+"/items", `{"product_id":"P","quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = srv.do(t, http.MethodPost, "/carts/"+cart.ID+"/items", `{"product_id":"Q","quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cart = decode[cartResponse](t, rec)
	assert.True(t, decimal.RequireFromString("25").Equal(cart.Total))

	rec = srv.do(t, http.MethodPost, "/carts/"+cart.ID+"/orders", `{"shipping_address":"1 Main St","contact_phone":"555-0100"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[orderResponse](t, rec)
	assert.Equal(t, "pending", string(order.Status))

	rec = srv.do(t, http.MethodPost, "/orders/"+order.ID+"/payments", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	started := decode[startPaymentResponse](t, rec)
	assert.NotEmpty(t, started.CheckoutURL)

	success := "/payments/success?session_id=" + url.QueryEscape(started.SessionID) + "&invoice_id=" + url.QueryEscape(started.InvoiceID)
	rec = srv.do(t, http.MethodGet, success, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "payment_incomplete", decode[errorResponse](t, rec).Error)

	srv.gateway.markPaid(started.SessionID)
	rec = srv.do(t, http.MethodGet, success, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	settled := decode[settlementResponse](t, rec)
	assert.Equal(t, "paid", settled.Status)
	assert.Equal(t, "completed", string(settled.Invoice.PaymentStatus))
	require.NotNil(t, settled.Order)
	assert.Equal(t, "confirmed", string(settled.Order.Status))
	require.NotNil(t, settled.Inventory)
	assert.Len(t, settled.Inventory.Processed, 1)
	assert.Len(t, settled.Inventory.Shortfalls, 1)
	assert.Equal(t, 2, settled.ItemsCleared)

	rec = srv.do(t, http.MethodPost, "/orders/"+order.ID+"/payments", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_paid", decode[errorResponse](t, rec).Error)

	rec = srv.do(t, http.MethodPost, "/orders/"+order.ID+"/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", string(decode[orderResponse](t, rec).Status))
}

func TestCreateOrderFromEmptyCart(t *testing.T) {
	srv := newTestServer(t, Options{})
	cart := decode[cartResponse](t, srv.do(t, http.MethodGet, "/users/u-1/cart", ""))

	rec := srv.do(t, http.MethodPost, "/carts/"+cart.ID+"/orders", `{"shipping_address":"1 Main St","contact_phone":"555"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "empty_cart", decode[errorResponse](t, rec).Error)
}

func TestRequestValidation(t *testing.T) {
	srv := newTestServer(t, Options{})
	cart := decode[cartResponse](t, srv.do(t, http.MethodGet, "/users/u-1/cart", ""))

	tests := []struct {
		name, method, target, body string
		status                     int
	}{
		{"zero quantity", http.MethodPost, "/carts/" + cart.ID + "/items", `{"product_id":"P","quantity":0}`, http.StatusBadRequest},
		{"unknown product", http.MethodPost, "/carts/" + cart.ID + "/items", `{"product_id":"X","quantity":1}`, http.StatusNotFound},
		{"phone too long", http.MethodPost, "/carts/" + cart.ID + "/orders", `{"shipping_address":"a","contact_phone":"012345678901234567890"}`, http.StatusBadRequest},
		{"unknown status", http.MethodPut, "/orders/o-1/status", `{"status":"lost"}`, http.StatusBadRequest},
		{"phone has letters", http.MethodPost, "/carts/" + cart.ID + "/orders", `{"shipping_address":"a","contact_phone":"call me"}`, http.StatusBadRequest},
		{"negative manual amount", http.MethodPost, "/invoices/manual", `{"order_id":"o-1","method":"cash","amount":"-5"}`, http.StatusBadRequest},
		{"card is not manual", http.MethodPost, "/invoices/manual", `{"order_id":"o-1","method":"card"}`, http.StatusBadRequest},
		{"missing session id", http.MethodGet, "/payments/success?invoice_id=i-1", "", http.StatusBadRequest},
		{"unknown order", http.MethodGet, "/orders/missing", "", http.StatusNotFound},
		{"unknown invoice", http.MethodGet, "/invoices/missing", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestWebhookSignature(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := srv.do(t, http.MethodPost, "/payments/webhook", `{"id":"evt_1"}`, headerStripeSig, "bad")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "signature", decode[errorResponse](t, rec).Error)

	rec = srv.do(t, http.MethodPost, "/payments/webhook", `{"id":"evt_1"}`, headerStripeSig, "good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "received", decode[webhookAck](t, rec).Status)
}

func TestGatewayFailureIsRetryable(t *testing.T) {
	srv := newTestServer(t, Options{})
	srv.gateway.createErr = errors.New("connection reset")
	cart := decode[cartResponse](t, srv.do(t, http.MethodGet, "/users/u-1/cart", ""))
	srv.do(t, http.MethodPost, "/carts/"+cart.ID+"/items", `{"product_id":"P","quantity":1}`)
	order := decode[orderResponse](t, srv.do(t, http.MethodPost, "/carts/"+cart.ID+"/orders", `{"shipping_address":"a","contact_phone":"1"}`))

	rec := srv.do(t, http.MethodPost, "/orders/"+order.ID+"/payments", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode[errorResponse](t, rec)
	assert.Equal(t, "gateway", body.Error)
	assert.True(t, body.Retryable)
	assert.NotContains(t, body.Message, "connection reset")
}

func TestRateLimitSparesWebhook(t *testing.T) {
	srv := newTestServer(t, Options{RateLimit: NewRateLimiter(0.001, 1, time.Minute)})

	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/users/u-1/cart", "").Code)
	rec := srv.do(t, http.MethodGet, "/users/u-1/cart", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", decode[errorResponse](t, rec).Error)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/payments/webhook", `{}`, headerStripeSig, "good").Code)
	}
	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/health", "").Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := srv.do(t, http.MethodGet, "/health", "", headerRequestID, "req-42")
	assert.Equal(t, "req-42", rec.Header().Get(headerRequestID))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, Options{AllowedOrigins: []string{"https://shop.example.com"}})

	rec := srv.do(t, http.MethodOptions, "/orders/o-1/payments", "",
		"Origin", "https://shop.example.com",
		"Access-Control-Request-Method", http.MethodPost,
	)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = srv.do(t, http.MethodGet, "/health", "", "Origin", "https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = newTestServer(t, Options{}).do(t, http.MethodGet, "/health", "", "Origin", "https://evil.example.com")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
