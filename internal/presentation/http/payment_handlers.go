package httppresentation

import (
	"net/http"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application/checkout"
	"github.com/gin-gonic/gin"
)

func (h *Handler) handleStartPayment(c *gin.Context) {
	res, err := h.svc.Checkout.StartPayment.Execute(c.Request.Context(), checkout.StartPaymentInput{
		OrderID: c.Param("order_id"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, startPaymentResponse{
		CheckoutURL: res.CheckoutURL,
		SessionID:   res.SessionID,
		InvoiceID:   res.InvoiceID,
		InvoiceCode: res.InvoiceCode,
		Amount:      res.Amount,
	})
}

// handlePaymentSuccess is the gateway's success URL. The query proves nothing
// by itself; the coordinator verifies the session before settling.
func (h *Handler) handlePaymentSuccess(c *gin.Context) {
	var q successQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.bindError(c, err)
		return
	}
	s, err := h.svc.Checkout.ConfirmRedirect.Execute(c.Request.Context(), checkout.ConfirmRedirectInput{
		SessionID: q.SessionID,
		InvoiceID: q.InvoiceID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSettlementResponse(s))
}

func (h *Handler) handlePaymentCancel(c *gin.Context) {
	var q cancelQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.bindError(c, err)
		return
	}
	inv, err := h.svc.Checkout.CancelRedirect.Execute(c.Request.Context(), checkout.CancelRedirectInput{
		InvoiceID: q.InvoiceID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newInvoiceResponse(inv))
}

// handleWebhook acknowledges every authenticated delivery, whatever its outcome.
func (h *Handler) handleWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		h.bindError(c, err)
		return
	}
	if _, err := h.svc.Checkout.Webhook.Execute(c.Request.Context(), checkout.WebhookInput{
		Payload:   payload,
		Signature: c.GetHeader(headerStripeSig),
	}); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, webhookAck{Status: "received"})
}

func (h *Handler) handlePaymentStatus(c *gin.Context) {
	res, err := h.svc.Checkout.PaymentStatus.Execute(c.Request.Context(), checkout.PaymentStatusInput{
		InvoiceID: c.Param("invoice_id"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentStatusResponse{
		Invoice:       newInvoiceResponse(res.Invoice),
		GatewayStatus: string(res.GatewayStatus),
		CheckoutURL:   res.CheckoutURL,
	})
}

func (h *Handler) handleManualPayment(c *gin.Context) {
	var req manualPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	inv, err := h.svc.Checkout.ManualPayment.Execute(c.Request.Context(), checkout.ManualPaymentInput{
		OrderID: req.OrderID,
		Method:  req.Method,
		Amount:  req.Amount,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newInvoiceResponse(inv))
}
