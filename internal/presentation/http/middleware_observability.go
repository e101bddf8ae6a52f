package httppresentation

import (
	"strconv"
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability/logctx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// route returns the registered template, keeping metric labels low-cardinality.
func route(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unknown"
}

// withTrace creates a server span for the request using OTel and W3C propagation.
func (h *Handler) withTrace() gin.HandlerFunc {
	tracer := otel.Tracer("minishop.http")
	prop := otel.GetTextMapPropagator()
	return func(c *gin.Context) {
		r := c.Request
		parent := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		tmpl := route(c)

		ctx, span := tracer.Start(parent, r.Method+" "+tmpl,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", tmpl),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
			),
		)
		defer span.End()

		c.Request = r.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		}
	}
}

// withRequestContext injects a request-scoped logger (request id, tenant id,
// trace ids) and echoes X-Request-ID.
func (h *Handler) withRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(headerRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(headerRequestID, rid)

		fields := []observability.Field{observability.F("request_id", rid)}
		if tid := c.GetHeader(headerTenantID); tid != "" {
			fields = append(fields, observability.F("tenant_id", tid))
		}
		ctx, _ := logctx.Enrich(c.Request.Context(), h.log, fields...)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// withHTTPMetrics records RED-ish HTTP metrics using instruments resolved at construction.
func (h *Handler) withHTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		labels := []observability.Label{
			observability.L("method", c.Request.Method),
			observability.L("route", route(c)),
			observability.L("status", strconv.Itoa(c.Writer.Status())),
		}
		h.requests.Add(1, labels...)
		h.latency.Observe(time.Since(start).Seconds(), labels...)
	}
}

// withAccessLog writes a single access log after the handler completes.
func (h *Handler) withAccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logctx.FromOr(c.Request.Context(), h.log).Info("http_access",
			observability.F("method", c.Request.Method),
			observability.F("route", route(c)),
			observability.F("path", c.Request.URL.Path),
			observability.F("status", c.Writer.Status()),
			observability.F("latency_ms", time.Since(start).Milliseconds()),
		)
	}
}
