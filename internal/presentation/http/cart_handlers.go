package httppresentation

import (
	"net/http"

	appcart "github.com/Zhima-Mochi/minishop-checkout/app/internal/application/cart"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application/checkout"
	domcart "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/cart"
	"github.com/gin-gonic/gin"
)

func (h *Handler) handleActiveCart(c *gin.Context) {
	cart, err := h.svc.Carts.ActiveCart(c.Request.Context(), c.Param("user_id"))
	h.respondCart(c, http.StatusOK, cart, err)
}

func (h *Handler) handleAddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	cart, err := h.svc.Carts.AddItem(c.Request.Context(), appcart.AddItemInput{
		CartID:    c.Param("cart_id"),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	h.respondCart(c, http.StatusCreated, cart, err)
}

func (h *Handler) handleUpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	cart, err := h.svc.Carts.UpdateQuantity(c.Request.Context(), c.Param("cart_id"), c.Param("item_id"), req.Quantity)
	h.respondCart(c, http.StatusOK, cart, err)
}

func (h *Handler) handleRemoveItem(c *gin.Context) {
	cart, err := h.svc.Carts.RemoveItem(c.Request.Context(), c.Param("cart_id"), c.Param("item_id"))
	h.respondCart(c, http.StatusOK, cart, err)
}

func (h *Handler) handleRestoreItem(c *gin.Context) {
	cart, err := h.svc.Carts.RestoreItem(c.Request.Context(), c.Param("cart_id"), c.Param("item_id"))
	h.respondCart(c, http.StatusOK, cart, err)
}

func (h *Handler) handleClearCart(c *gin.Context) {
	cart, err := h.svc.Carts.Clear(c.Request.Context(), c.Param("cart_id"))
	h.respondCart(c, http.StatusOK, cart, err)
}

func (h *Handler) respondCart(c *gin.Context, status int, cart *domcart.Cart, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(status, newCartResponse(cart))
}

func (h *Handler) handleCreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	o, err := h.svc.Checkout.CreateOrder.Execute(c.Request.Context(), checkout.CreateOrderInput{
		CartID:          c.Param("cart_id"),
		ShippingAddress: req.ShippingAddress,
		ContactPhone:    req.ContactPhone,
		Notes:           req.Notes,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newOrderResponse(o))
}
