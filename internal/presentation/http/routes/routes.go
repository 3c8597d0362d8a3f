package routes

import (
	"time"

	"github.com/caveo/pos-api/internal/config"
	domainRepo "github.com/caveo/pos-api/internal/domain/repository"
	"github.com/caveo/pos-api/internal/presentation/http/handler"
	"github.com/caveo/pos-api/internal/presentation/http/middleware"
	"github.com/caveo/pos-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Sale    *handler.SaleHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Log             *logrus.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-operator rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile
	protected.GET("/profile", h.Auth.Me)

	// Catalog
	registerProductRoutes(protected, h)

	// Sales workflow
	registerSaleRoutes(protected, h, deps)

	// Printer
	registerPrinterRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", middleware.RequireRole("admin"), h.Product.Create)
		products.GET("/:slug", h.Product.Get)
		products.PUT("/:slug", middleware.RequireRole("admin"), h.Product.Update)
		products.DELETE("/:slug", middleware.RequireRole("admin"), h.Product.Delete)
	}

	protected.GET("/packaging-units/barcode/:code", h.Product.ResolveBarcode)
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.POST("", h.Sale.Create)
		sales.GET("/drafts", h.Sale.ListDrafts)
		sales.GET("/:id", h.Sale.Get)

		sales.POST("/:id/lines", h.Sale.AddLine)
		sales.PATCH("/:id/lines/:lineID", h.Sale.UpdateLine)
		sales.DELETE("/:id/lines/:lineID", h.Sale.RemoveLine)

		sales.PUT("/:id/discount", h.Sale.ApplyDiscount)
		sales.DELETE("/:id/discount", h.Sale.RemoveDiscount)

		// Payment and settlement accept Idempotency-Key so a terminal
		// retrying after a network failure cannot double-charge
		sales.POST("/:id/payments", idempotent, h.Sale.RecordPayment)
		sales.POST("/:id/finalize", idempotent, h.Sale.Finalize)
		sales.POST("/:id/cancel", h.Sale.Cancel)

		sales.GET("/:id/receipt", h.Sale.GetReceipt)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/receipt/:id", h.Printer.PrintReceipt)
	}
}
