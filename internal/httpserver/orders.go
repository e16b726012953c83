package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

type cryptoWebhookRequest struct {
	OrderID       string `json:"order_id" binding:"required"`
	InvoiceID     string `json:"invoice_id"`
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// cryptoWebhookHandler receives the processor's payment callback. Only a
// confirmed status for an order that actually selected the bitcoin
// provider flips it to paid; everything else is acknowledged and ignored.
func cryptoWebhookHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cryptoWebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		switch req.PaymentStatus {
		case "finished", "confirmed":
			if err := deps.Orders.MarkPaid(c.Request.Context(), req.OrderID, domain.PaymentMethodBitcoin, req.InvoiceID); err != nil {
				respondError(c, err)
				return
			}
		case "failed", "expired":
			if err := deps.Orders.MarkFailed(c.Request.Context(), req.OrderID, domain.PaymentMethodBitcoin); err != nil {
				respondError(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func getOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := deps.Orders.GetByCode(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
