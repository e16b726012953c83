package httpserver

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/order"
)

// Deps carries the handlers' collaborators.
type Deps struct {
	Products   productRepo
	Carts      cart.Store
	Checkout   *checkout.Service
	Orders     *order.Service
	TaxRateBps int64
}

type productRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// buildRouter wires routes for the storefront API. The UI is a browser
// client on another origin, so CORS is open for the storefront verbs.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps))
	router.GET("/products/:id", getProductHandler(deps))

	cartGroup := router.Group("/cart/:sessionId")
	{
		cartGroup.GET("", getCartHandler(deps))
		cartGroup.PUT("", replaceCartHandler(deps))
		cartGroup.POST("/items", addCartItemHandler(deps))
		cartGroup.DELETE("/items/:productId", removeCartItemHandler(deps))
	}

	router.POST("/checkout", startCheckoutHandler(deps))
	checkoutGroup := router.Group("/checkout/:id")
	{
		checkoutGroup.GET("", getCheckoutHandler(deps))
		checkoutGroup.POST("/customer", submitCustomerHandler(deps))
		checkoutGroup.POST("/payment-method", selectPaymentHandler(deps))
		checkoutGroup.POST("/back", backHandler(deps))
		checkoutGroup.POST("/card/confirm", confirmCardHandler(deps))
		checkoutGroup.POST("/bitcoin", executeBitcoinHandler(deps))
		checkoutGroup.POST("/cash", executeCashHandler(deps))
	}

	router.POST("/webhooks/crypto", cryptoWebhookHandler(deps))
	router.GET("/orders/:code", getOrderHandler(deps))

	return router
}
