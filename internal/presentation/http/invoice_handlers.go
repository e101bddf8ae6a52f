package httppresentation

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) handleListInvoices(c *gin.Context) {
	list, err := h.svc.Invoices.ListActive(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newInvoiceList(list))
}

func (h *Handler) handleListUserInvoices(c *gin.Context) {
	list, err := h.svc.Invoices.ListByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newInvoiceList(list))
}

func (h *Handler) handleGetInvoice(c *gin.Context) {
	inv, err := h.svc.Invoices.Get(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newInvoiceResponse(inv))
}

func (h *Handler) handleDeleteInvoice(c *gin.Context) {
	if err := h.svc.Invoices.Delete(c.Request.Context(), c.Param("invoice_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleRestoreInvoice(c *gin.Context) {
	inv, err := h.svc.Invoices.Restore(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newInvoiceResponse(inv))
}
