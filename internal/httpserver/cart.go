package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/pricing"
)

type cartEntryRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type replaceCartRequest struct {
	Items []cartEntryRequest `json:"items" binding:"required,dive"`
}

type cartResponse struct {
	Items  []domain.CartItem `json:"items"`
	Totals pricing.Totals    `json:"totals"`
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := deps.Carts.Get(c.Request.Context(), c.Param("sessionId"))
		if err != nil {
			respondError(c, err)
			return
		}
		if items == nil {
			items = []domain.CartItem{}
		}
		c.JSON(http.StatusOK, cartResponse{Items: items, Totals: pricing.Calculate(items, deps.TaxRateBps)})
	}
}

func replaceCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req replaceCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx := c.Request.Context()
		items := make([]domain.CartItem, 0, len(req.Items))
		for _, entry := range req.Items {
			product, err := deps.Products.GetByID(ctx, entry.ProductID)
			if err != nil {
				respondError(c, err)
				return
			}
			items = append(items, domain.ItemFromProduct(*product, entry.Quantity))
		}
		if err := deps.Carts.Set(ctx, c.Param("sessionId"), items); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse{Items: items, Totals: pricing.Calculate(items, deps.TaxRateBps)})
	}
}

func addCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx := c.Request.Context()
		sessionID := c.Param("sessionId")

		items, err := deps.Carts.Get(ctx, sessionID)
		if err != nil {
			respondError(c, err)
			return
		}

		merged := false
		for i := range items {
			if items[i].ProductID == req.ProductID {
				items[i].Quantity += req.Quantity
				merged = true
				break
			}
		}
		if !merged {
			product, err := deps.Products.GetByID(ctx, req.ProductID)
			if err != nil {
				respondError(c, err)
				return
			}
			items = append(items, domain.ItemFromProduct(*product, req.Quantity))
		}

		if err := deps.Carts.Set(ctx, sessionID, items); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse{Items: items, Totals: pricing.Calculate(items, deps.TaxRateBps)})
	}
}

func removeCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sessionID := c.Param("sessionId")
		productID := c.Param("productId")

		items, err := deps.Carts.Get(ctx, sessionID)
		if err != nil {
			respondError(c, err)
			return
		}
		kept := items[:0]
		for _, item := range items {
			if item.ProductID != productID {
				kept = append(kept, item)
			}
		}
		if err := deps.Carts.Set(ctx, sessionID, kept); err != nil {
			respondError(c, err)
			return
		}
		if kept == nil {
			kept = []domain.CartItem{}
		}
		c.JSON(http.StatusOK, cartResponse{Items: kept, Totals: pricing.Calculate(kept, deps.TaxRateBps)})
	}
}
