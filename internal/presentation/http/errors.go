package httppresentation

import (
	"net/http"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability/logctx"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation, apperr.KindEmptyCart, apperr.KindSignature:
		return http.StatusBadRequest
	case apperr.KindAlreadyPaid, apperr.KindConflict, apperr.KindPaymentIncomplete:
		return http.StatusConflict
	case apperr.KindGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps an application error to its status. Internal causes are
// logged, never echoed to the client.
func (h *Handler) writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusOf(kind)
	if status >= http.StatusInternalServerError {
		logctx.FromOr(c.Request.Context(), h.log).Error("http_request_failed",
			observability.F("route", route(c)),
			observability.F("error", err.Error()),
		)
	}
	c.AbortWithStatusJSON(status, errorResponse{
		Error:     string(kind),
		Message:   apperr.MessageOf(err),
		Retryable: apperr.Retryable(err),
	})
}

// bindError reports a malformed request body or query.
func (h *Handler) bindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Error:   string(apperr.KindValidation),
		Message: err.Error(),
	})
}
