package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gstbill-api/internal/config"
	domainRepo "github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/internal/presentation/http/handler"
	"github.com/sangkips/gstbill-api/internal/presentation/http/middleware"
	"github.com/sangkips/gstbill-api/pkg/utils"
	"github.com/sangkips/gstbill-api/pkg/validation"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Company   *handler.CompanyHandler
	Receiver  *handler.ReceiverHandler
	Product   *handler.ProductHandler
	Bill      *handler.BillHandler
	Settings  *handler.SettingsHandler
	Analytics *handler.AnalyticsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.OwnerRateLimiter
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	validation.RegisterGinTagNames()

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	// pdf_url references resolve here, behind the same auth as the API
	documents := router.Group(documentPrefix(deps.Cfg.Storage.PublicPrefix))
	documents.Use(middleware.AuthMiddleware(deps.JWTManager))
	if deps.RateLimiter != nil {
		documents.Use(deps.RateLimiter.Middleware())
	}
	documents.GET("/:file", h.Bill.DownloadStored)

	return router
}

// documentPrefix mirrors the prefix docstore puts on stored references
func documentPrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "bills"
	}
	return "/" + prefix
}

// NewRateLimiter builds the per-owner limiter from the configured window
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.OwnerRateLimiter {
	rps := 0.0
	if cfg.Duration > 0 {
		rps = float64(cfg.Requests) / float64(cfg.Duration)
	}
	return middleware.NewOwnerRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: rps,
		BurstSize:         cfg.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)

	// Company profile
	protected.GET("/company", h.Company.Get)
	protected.POST("/company", h.Company.Save)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", h.Settings.UpdateSettings)

	registerReceiverRoutes(protected, h)
	registerProductRoutes(protected, h)
	registerBillRoutes(protected, h, deps)
	registerAnalyticsRoutes(protected, h)
}

func registerReceiverRoutes(protected *gin.RouterGroup, h *Handlers) {
	receivers := protected.Group("/receivers")
	{
		receivers.GET("", h.Receiver.List)
		receivers.POST("", h.Receiver.Create)
		receivers.GET("/:id", h.Receiver.Get)
		receivers.PUT("/:id", h.Receiver.Update)
		receivers.DELETE("/:id", h.Receiver.Delete)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.DELETE("/:id", h.Product.Delete)
	}
}

func registerBillRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	bills := protected.Group("/bills")
	{
		bills.GET("", h.Bill.List)
		// a retried submission replays the first result instead of issuing twice
		bills.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Logger,
		}), h.Bill.Create)
		bills.GET("/next-number", h.Bill.NextNumber)
		bills.GET("/:id", h.Bill.Get)
		bills.PUT("/:id", h.Bill.Update)
		bills.DELETE("/:id", h.Bill.Delete)
		bills.GET("/:id/pdf", h.Bill.Download)
	}
}

func registerAnalyticsRoutes(protected *gin.RouterGroup, h *Handlers) {
	analytics := protected.Group("/analytics")
	{
		analytics.GET("/summary", h.Analytics.Summary)
		analytics.GET("/monthly", h.Analytics.Monthly)
		analytics.GET("/monthly/pdf", h.Analytics.MonthlyPDF)
	}
}
