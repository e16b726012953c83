package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/checkout"
	"storefront/internal/domain"
)

// respondError maps the checkout error taxonomy onto HTTP statuses.
// Nothing here is fatal to the process; every class is recoverable by the
// client retrying or reloading.
func respondError(c *gin.Context, err error) {
	var validationErr *checkout.ValidationError
	var providerErr *checkout.ProviderError
	var persistErr *checkout.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "operation not allowed in the current checkout step"})
	case errors.Is(err, domain.ErrSessionCommitted):
		c.JSON(http.StatusConflict, gin.H{"error": "checkout already completed"})
	case errors.As(err, &providerErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": providerErr.Error()})
	case errors.As(err, &persistErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": persistErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
