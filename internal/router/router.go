package router

import (
	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/cart-service/internal/dto"
	"github.com/nikolayk812/cart-service/internal/handler"
	"github.com/nikolayk812/cart-service/internal/logger"
	"github.com/nikolayk812/cart-service/internal/middleware"
	"github.com/nikolayk812/cart-service/internal/port"
	"go.uber.org/zap"
	"time"
)

type Config struct {
	MaxBodySize    int64
	Identity       middleware.IdentityConfig
	Idempotency    port.IdempotencyStore
	IdempotencyTTL time.Duration
}

type Handlers struct {
	Cart    *handler.CartHandler
	Product *handler.ProductHandler
	Health  *handler.HealthHandler
}

// New builds the HTTP engine. Cart routes require an identity; catalog and
// health routes do not.
func New(log *zap.Logger, cfg Config, h Handlers) *gin.Engine {
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.BodyLimit(cfg.MaxBodySize),
	)

	engine.NoRoute(func(c *gin.Context) {
		code := dto.ErrCodeRouteNotFound
		c.JSON(dto.GetHTTPStatus(code),
			dto.NewErrorResponse(code, "route not found", c.GetString(logger.RequestIDKey)))
	})

	engine.GET("/health", h.Health.Health)

	products := engine.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", h.Product.Create)
		products.PATCH("/:id/price", h.Product.UpdatePrice)
	}

	carts := engine.Group("/carts", middleware.Identity(cfg.Identity))
	{
		carts.GET("", h.Cart.Get)
		carts.DELETE("", h.Cart.Clear)
		carts.POST("/items", middleware.Idempotency(cfg.Idempotency, cfg.IdempotencyTTL), h.Cart.AddItem)
		carts.PATCH("/items/:productId", h.Cart.SetItemQuantity)
		carts.DELETE("/items/:productId", h.Cart.RemoveItem)
	}

	return engine
}
