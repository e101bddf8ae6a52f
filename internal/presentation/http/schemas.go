package httppresentation

import (
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application/checkout"
	domcart "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/cart"
	dominv "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	dominvoice "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/invoice"
	domorder "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Requests.

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type createOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
	ContactPhone    string `json:"contact_phone" binding:"required,max=20,phone"`
	Notes           string `json:"notes"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed preparing shipped delivered cancelled"`
}

type manualPaymentRequest struct {
	OrderID string           `json:"order_id" binding:"required"`
	Method  string           `json:"method" binding:"required,oneof=cash transfer qr"`
	Amount  *decimal.Decimal `json:"amount" binding:"omitempty,gt=0"`
}

type successQuery struct {
	SessionID string `form:"session_id" binding:"required"`
	InvoiceID string `form:"invoice_id" binding:"required"`
}

type cancelQuery struct {
	InvoiceID string `form:"invoice_id" binding:"required"`
}

// Responses.

type cartItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Active      bool            `json:"active"`
}

type cartResponse struct {
	ID     string             `json:"id"`
	UserID string             `json:"user_id"`
	Active bool               `json:"active"`
	Items  []cartItemResponse `json:"items"`
	Total  decimal.Decimal    `json:"total"`
	Count  int                `json:"count"`
}

func newCartResponse(c *domcart.Cart) cartResponse {
	out := cartResponse{
		ID:     c.ID,
		UserID: c.UserID,
		Active: c.Active,
		Items:  make([]cartItemResponse, 0, len(c.Items)),
		Total:  c.Total(),
		Count:  c.Count(),
	}
	for _, it := range c.Items {
		out.Items = append(out.Items, cartItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal(),
			Active:      it.Active,
		})
	}
	return out
}

type orderResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	CartID          string          `json:"cart_id"`
	Total           decimal.Decimal `json:"total"`
	Status          domorder.Status `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	ContactPhone    string          `json:"contact_phone"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func newOrderResponse(o *domorder.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		CartID:          o.CartID,
		Total:           o.Total,
		Status:          o.Status,
		ShippingAddress: o.ShippingAddress,
		ContactPhone:    o.ContactPhone,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func newOrderList(list []*domorder.Order) []orderResponse {
	out := make([]orderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, newOrderResponse(o))
	}
	return out
}

type invoiceResponse struct {
	ID            string                   `json:"id"`
	Code          string                   `json:"code"`
	OrderID       string                   `json:"order_id"`
	Amount        decimal.Decimal          `json:"amount"`
	PaymentStatus dominvoice.PaymentStatus `json:"payment_status"`
	PaymentMethod dominvoice.PaymentMethod `json:"payment_method"`
	SessionID     string                   `json:"session_id,omitempty"`
	PaidAt        *time.Time               `json:"paid_at,omitempty"`
	DueDate       time.Time                `json:"due_date"`
	CreatedAt     time.Time                `json:"created_at"`
}

func newInvoiceResponse(i *dominvoice.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:            i.ID,
		Code:          i.Code,
		OrderID:       i.OrderID,
		Amount:        i.Amount,
		PaymentStatus: i.PaymentStatus,
		PaymentMethod: i.PaymentMethod,
		SessionID:     i.SessionID,
		PaidAt:        i.PaidAt,
		DueDate:       i.DueDate(),
		CreatedAt:     i.CreatedAt,
	}
}

func newInvoiceList(list []*dominvoice.Invoice) []invoiceResponse {
	out := make([]invoiceResponse, 0, len(list))
	for _, i := range list {
		out = append(out, newInvoiceResponse(i))
	}
	return out
}

type startPaymentResponse struct {
	CheckoutURL string          `json:"checkout_url"`
	SessionID   string          `json:"session_id"`
	InvoiceID   string          `json:"invoice_id"`
	InvoiceCode string          `json:"invoice_code"`
	Amount      decimal.Decimal `json:"amount"`
}

type settlementResponse struct {
	Status           string          `json:"status"`
	AlreadyCompleted bool            `json:"already_completed"`
	Invoice          invoiceResponse `json:"invoice"`
	Order            *orderResponse  `json:"order,omitempty"`
	Inventory        *dominv.Report  `json:"inventory,omitempty"`
	ItemsCleared     int             `json:"items_cleared"`
}

func newSettlementResponse(s *checkout.Settlement) settlementResponse {
	out := settlementResponse{
		Status:           "paid",
		AlreadyCompleted: s.AlreadyCompleted,
		Invoice:          newInvoiceResponse(s.Invoice),
		Inventory:        s.Report,
		ItemsCleared:     s.ItemsCleared,
	}
	if s.Order != nil {
		o := newOrderResponse(s.Order)
		out.Order = &o
	}
	return out
}

type paymentStatusResponse struct {
	Invoice       invoiceResponse `json:"invoice"`
	GatewayStatus string          `json:"gateway_status,omitempty"`
	CheckoutURL   string          `json:"checkout_url,omitempty"`
}

type webhookAck struct {
	Status string `json:"status"`
}
