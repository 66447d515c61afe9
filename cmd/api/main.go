package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gstbill-api/internal/application/service"
	"github.com/sangkips/gstbill-api/internal/config"
	"github.com/sangkips/gstbill-api/internal/domain/tax"
	"github.com/sangkips/gstbill-api/internal/infrastructure/database"
	"github.com/sangkips/gstbill-api/internal/infrastructure/render"
	"github.com/sangkips/gstbill-api/internal/infrastructure/repository"
	"github.com/sangkips/gstbill-api/internal/presentation/http/handler"
	"github.com/sangkips/gstbill-api/internal/presentation/http/routes"
	"github.com/sangkips/gstbill-api/pkg/docstore"
	"github.com/sangkips/gstbill-api/pkg/logger"
	"github.com/sangkips/gstbill-api/pkg/oauth"
	"github.com/sangkips/gstbill-api/pkg/utils"
	"github.com/sangkips/gstbill-api/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	appLog, err := logger.New(logger.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Env,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync() //nolint:errcheck

	if err := run(cfg, appLog); err != nil {
		appLog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, appLog *zap.Logger) error {
	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(&cfg.Database, appLog)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	store, err := docstore.NewStoreFromConfig(cfg.Storage.Driver, cfg.Storage.BillsDir, cfg.Storage.PublicPrefix)
	if err != nil {
		return err
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	receiverRepo := repository.NewReceiverRepository(db)
	productRepo := repository.NewProductRepository(db)
	billRepo := repository.NewBillRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	googleOAuth := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
		FrontendURL:  cfg.OAuth.FrontendURL,
	})
	if !googleOAuth.IsConfigured() {
		appLog.Info("google sign-in disabled: client credentials not set")
	}

	// Initialize services
	settingsService := service.NewSettingsService(settingsRepo, tax.Rates{
		CGSTPercent: cfg.Tax.DefaultCGSTRate,
		SGSTPercent: cfg.Tax.DefaultSGSTRate,
	})
	authService := service.NewAuthService(userRepo, jwtManager, googleOAuth)
	companyService := service.NewCompanyService(companyRepo)
	receiverService := service.NewReceiverService(receiverRepo, billRepo)
	productService := service.NewProductService(productRepo)
	billService := service.NewBillService(
		billRepo,
		receiverRepo,
		companyRepo,
		settingsService,
		render.NewInvoiceRenderer(render.NewQRGenerator(), appLog),
		store,
		validation.New(),
		appLog,
	)
	analyticsService := service.NewAnalyticsService(billRepo, companyRepo, render.NewReportRenderer())

	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService, googleOAuth, cfg.App.Env == "production", appLog),
		Company:   handler.NewCompanyHandler(companyService),
		Receiver:  handler.NewReceiverHandler(receiverService),
		Product:   handler.NewProductHandler(productService),
		Bill:      handler.NewBillHandler(billService, appLog),
		Settings:  handler.NewSettingsHandler(settingsService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
	}

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          appLog,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting server", zap.String("port", port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
