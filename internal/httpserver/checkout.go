package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/payment/card"
	"storefront/internal/pricing"
)

type startCheckoutRequest struct {
	CartSessionID string `json:"cartSessionId" binding:"required"`
}

type customerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

type selectPaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

type confirmCardRequest struct {
	Status    string `json:"status" binding:"required"`
	PaymentID string `json:"paymentId"`
}

type checkoutResponse struct {
	Session *domain.CheckoutSession `json:"session"`
	Items   []domain.CartItem       `json:"items"`
	Totals  pricing.Totals          `json:"totals"`
}

func startCheckoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		session, err := deps.Checkout.Start(c.Request.Context(), req.CartSessionID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondWithSummary(c, deps, http.StatusCreated, session)
	}
}

func getCheckoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := deps.Checkout.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondWithSummary(c, deps, http.StatusOK, session)
	}
}

func submitCustomerHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		session, err := deps.Checkout.SubmitCustomerInfo(c.Request.Context(), c.Param("id"), domain.CustomerInfo{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
			City:    req.City,
			State:   req.State,
			Zip:     req.Zip,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondWithSummary(c, deps, http.StatusOK, session)
	}
}

func selectPaymentHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req selectPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		session, err := deps.Checkout.SelectPayment(c.Request.Context(), c.Param("id"), domain.PaymentMethod(req.Method))
		if err != nil {
			respondError(c, err)
			return
		}
		respondWithSummary(c, deps, http.StatusOK, session)
	}
}

func backHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := deps.Checkout.Back(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondWithSummary(c, deps, http.StatusOK, session)
	}
}

func confirmCardHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req confirmCardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := deps.Checkout.ConfirmCard(c.Request.Context(), c.Param("id"), req.Status, req.PaymentID)
		if err != nil {
			respondError(c, err)
			return
		}
		switch result.Outcome {
		case card.OutcomeSucceeded:
			c.JSON(http.StatusOK, gin.H{"status": "succeeded", "orderCode": result.OrderCode})
		case card.OutcomePending:
			c.JSON(http.StatusAccepted, gin.H{"status": "pending"})
		default:
			c.JSON(http.StatusPaymentRequired, gin.H{"status": "failed", "error": result.Message})
		}
	}
}

func executeBitcoinHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := deps.Checkout.ExecuteBitcoin(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"orderCode":    result.OrderCode,
			"payAddress":   result.PayAddress,
			"payAmountBtc": result.PayAmountBTC,
			"invoiceUrl":   result.InvoiceURL,
			"rate":         result.Rate,
			"expiresAt":    result.ExpiresAt,
		})
	}
}

func executeCashHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := deps.Checkout.ExecuteCash(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"orderCode":    result.OrderCode,
			"instructions": result.Instruction,
			"expiresAt":    result.ExpiresAt,
		})
	}
}

func respondWithSummary(c *gin.Context, deps Deps, status int, session *domain.CheckoutSession) {
	items, totals, err := deps.Checkout.Summary(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	c.JSON(status, checkoutResponse{Session: session, Items: items, Totals: totals})
}
