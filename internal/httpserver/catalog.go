package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func listProductsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := deps.Products.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

func getProductHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := deps.Products.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
