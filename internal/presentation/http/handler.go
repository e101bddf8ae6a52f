package httppresentation

import (
	"net/http"

	appcart "github.com/Zhima-Mochi/minishop-checkout/app/internal/application/cart"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application/checkout"
	appinvoice "github.com/Zhima-Mochi/minishop-checkout/app/internal/application/invoice"
	apporder "github.com/Zhima-Mochi/minishop-checkout/app/internal/application/order"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/gin-gonic/gin"
)

const (
	componentHTTPHandler = "http_server"
	headerRequestID      = "X-Request-ID"
	headerTenantID       = "X-Tenant-ID"
	headerStripeSig      = "Stripe-Signature"
)

// Services are the application entry points the routes call into.
type Services struct {
	Carts    *appcart.Service
	Orders   *apporder.Service
	Invoices *appinvoice.Service
	Checkout *checkout.Coordinator
}

type Options struct {
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// RateLimit throttles each client IP; nil disables throttling.
	RateLimit *RateLimiter
	// AllowedOrigins turns on CORS for the listed browser origins.
	AllowedOrigins []string
}

type Handler struct {
	svc  Services
	opts Options
	log  observability.Logger
	tel  observability.Observability

	requests observability.Counter   // http_requests_total{method,route,status}
	latency  observability.Histogram // http_request_duration_seconds{method,route,status}
}

func NewHandler(svc Services, tel observability.Observability, opts Options) *Handler {
	if tel == nil {
		tel = observability.Nop()
	}
	registerValidators()
	m := tel.Metrics()
	return &Handler{
		svc:      svc,
		opts:     opts,
		log:      tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tel:      tel,
		requests: m.Counter(observability.MHTTPRequests),
		latency:  m.Histogram(observability.MHTTPRequestDuration),
	}
}

// Router wires every route behind CORS (when configured) → Trace → request
// logger → metrics → access log → rate limit → handler.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if len(h.opts.AllowedOrigins) > 0 {
		r.Use(corsMiddleware(h.opts.AllowedOrigins))
	}
	r.Use(h.withTrace(), h.withRequestContext(), h.withHTTPMetrics(), h.withAccessLog())

	r.GET("/health", h.handleHealth)
	if h.opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.opts.Metrics))
	}

	api := r.Group("/")
	if h.opts.RateLimit != nil {
		api.Use(h.opts.RateLimit.Middleware())
	}

	api.GET("/users/:user_id/cart", h.handleActiveCart)
	api.GET("/users/:user_id/orders", h.handleListOrders)
	api.GET("/users/:user_id/invoices", h.handleListUserInvoices)

	api.POST("/carts/:cart_id/items", h.handleAddItem)
	api.PUT("/carts/:cart_id/items/:item_id", h.handleUpdateItem)
	api.DELETE("/carts/:cart_id/items/:item_id", h.handleRemoveItem)
	api.POST("/carts/:cart_id/items/:item_id/restore", h.handleRestoreItem)
	api.POST("/carts/:cart_id/clear", h.handleClearCart)
	api.POST("/carts/:cart_id/orders", h.handleCreateOrder)

	api.GET("/orders/:order_id", h.handleGetOrder)
	api.PUT("/orders/:order_id/status", h.handleUpdateOrderStatus)
	api.POST("/orders/:order_id/cancel", h.handleCancelOrder)
	api.POST("/orders/:order_id/payments", h.handleStartPayment)

	api.GET("/payments/success", h.handlePaymentSuccess)
	api.GET("/payments/cancel", h.handlePaymentCancel)
	// The gateway retries on its own schedule; throttling it would only delay settlement.
	r.POST("/payments/webhook", h.handleWebhook)

	api.GET("/invoices", h.handleListInvoices)
	api.POST("/invoices/manual", h.handleManualPayment)
	api.GET("/invoices/:invoice_id", h.handleGetInvoice)
	api.GET("/invoices/:invoice_id/payment-status", h.handlePaymentStatus)
	api.DELETE("/invoices/:invoice_id", h.handleDeleteInvoice)
	api.POST("/invoices/:invoice_id/restore", h.handleRestoreInvoice)

	return r
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
