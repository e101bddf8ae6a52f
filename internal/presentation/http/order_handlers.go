package httppresentation

import (
	"net/http"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application/checkout"
	domorder "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
	"github.com/gin-gonic/gin"
)

func (h *Handler) handleGetOrder(c *gin.Context) {
	o, err := h.svc.Orders.Get(c.Request.Context(), c.Param("order_id"))
	h.respondOrder(c, o, err)
}

func (h *Handler) handleListOrders(c *gin.Context) {
	list, err := h.svc.Orders.ListByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderList(list))
}

func (h *Handler) handleUpdateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	o, err := h.svc.Checkout.UpdateOrderStatus.Execute(c.Request.Context(), checkout.UpdateOrderStatusInput{
		OrderID: c.Param("order_id"),
		Status:  req.Status,
	})
	h.respondOrder(c, o, err)
}

func (h *Handler) handleCancelOrder(c *gin.Context) {
	o, err := h.svc.Checkout.CancelOrder.Execute(c.Request.Context(), checkout.CancelOrderInput{
		OrderID: c.Param("order_id"),
	})
	h.respondOrder(c, o, err)
}

func (h *Handler) respondOrder(c *gin.Context, o *domorder.Order, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(o))
}
