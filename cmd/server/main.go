package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/sabores/backend/internal/application/catalog"
	deliveryapp "github.com/sabores/backend/internal/application/delivery"
	identityapp "github.com/sabores/backend/internal/application/identity"
	marketingapp "github.com/sabores/backend/internal/application/marketing"
	orderingapp "github.com/sabores/backend/internal/application/ordering"
	pwaapp "github.com/sabores/backend/internal/application/pwa"
	settingsapp "github.com/sabores/backend/internal/application/settings"
	storefrontapp "github.com/sabores/backend/internal/application/storefront"
	webhookapp "github.com/sabores/backend/internal/application/webhook"
	"github.com/sabores/backend/internal/infrastructure/auth"
	"github.com/sabores/backend/internal/infrastructure/cache"
	"github.com/sabores/backend/internal/infrastructure/config"
	"github.com/sabores/backend/internal/infrastructure/event"
	"github.com/sabores/backend/internal/infrastructure/logger"
	"github.com/sabores/backend/internal/infrastructure/notify"
	"github.com/sabores/backend/internal/infrastructure/persistence"
	"github.com/sabores/backend/internal/infrastructure/scheduler"
	webhookinfra "github.com/sabores/backend/internal/infrastructure/webhook"
	"github.com/sabores/backend/internal/interfaces/http/handler"
	"github.com/sabores/backend/internal/interfaces/http/middleware"
	"github.com/sabores/backend/internal/interfaces/http/router"
)

// version is stamped at build time via -ldflags
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Sabores Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	optionRepo := persistence.NewGormProductOptionRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	areaRepo := persistence.NewGormDeliveryAreaRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	webhookRepo := persistence.NewGormWebhookRepository(db.DB)
	webhookLogRepo := persistence.NewGormWebhookLogRepository(db.DB)
	emailAutomationRepo := persistence.NewGormEmailAutomationRepository(db.DB)
	smsAutomationRepo := persistence.NewGormSmsAutomationRepository(db.DB)
	flowTaskRepo := persistence.NewGormFlowTaskRepository(db.DB)
	flowRunLogRepo := persistence.NewGormFlowRunLogRepository(db.DB)
	installRepo := persistence.NewGormInstallEventRepository(db.DB)

	// Storefront projection cache
	store := cache.NewStore(cfg, log)

	// Session tokens and revocation. The revoker falls back to process
	// memory when Redis is not reachable; revoked sessions then survive
	// only until the next restart.
	jwtService := auth.NewJWTService(cfg.JWT)
	var revoker auth.SessionRevoker
	if cfg.Redis.Host != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisRevoker, err := auth.NewRedisSessionRevoker(redisClient)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory session revocation", zap.Error(err))
			revoker = auth.NewInMemorySessionRevoker()
		} else {
			revoker = redisRevoker
		}
	} else {
		revoker = auth.NewInMemorySessionRevoker()
	}

	// Outbound messaging
	mailer := notify.NewSMTPSender(cfg.SMTP, log)
	texter := notify.NewHTTPSMSSender(cfg.SMS, log)

	// Application services
	productService := catalogapp.NewProductService(productRepo, categoryRepo, store)
	categoryService := catalogapp.NewCategoryService(categoryRepo, store)
	optionService := catalogapp.NewOptionService(optionRepo, productRepo, store)
	areaService := deliveryapp.NewAreaService(areaRepo, store)
	settingsService := settingsapp.NewService(settingsRepo, store, log)
	storefrontService := storefrontapp.NewService(productRepo, categoryRepo, settingsRepo, store, cfg.Cache.StorefrontTTL, log)
	checkoutService := orderingapp.NewCheckoutService(orderRepo, productRepo, areaRepo, settingsRepo, log)
	orderService := orderingapp.NewOrderService(orderRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, revoker, log)
	userService := identityapp.NewUserService(userRepo)
	installService := pwaapp.NewInstallService(installRepo, log)
	automationService := marketingapp.NewAutomationService(emailAutomationRepo, smsAutomationRepo, flowRunLogRepo, log)

	// Webhook dispatch
	dispatcher := webhookinfra.NewDispatcher(webhookRepo, webhookLogRepo, cfg.Webhook, log)
	webhookService := webhookapp.NewService(webhookRepo, webhookLogRepo, dispatcher)

	// Marketing flow execution
	flowRunner := marketingapp.NewFlowRunner(
		emailAutomationRepo, smsAutomationRepo, flowTaskRepo, flowRunLogRepo,
		mailer, texter, log,
	)
	triggerHandler := marketingapp.NewTriggerHandler(flowRunner, emailAutomationRepo, smsAutomationRepo, log)
	flowExecutor := marketingapp.NewFlowExecutor(flowRunner, emailAutomationRepo, smsAutomationRepo)

	// Event bus: webhooks fan out first, then marketing triggers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(dispatcher)
	eventBus.Subscribe(triggerHandler)
	log.Info("Event handlers registered",
		zap.Strings("marketing_trigger_events", triggerHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	checkoutService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	automationService.SetEventPublisher(eventBus)

	// Delayed flow task processing
	if cfg.Scheduler.Enabled {
		processor, err := scheduler.NewFlowTaskProcessor(cfg.Scheduler, flowTaskRepo, flowExecutor, log)
		if err != nil {
			log.Fatal("Invalid scheduler configuration", zap.Error(err))
		}
		if err := processor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start flow task processor", zap.Error(err))
		}
		defer func() {
			if err := processor.Stop(context.Background()); err != nil {
				log.Error("Error stopping flow task processor", zap.Error(err))
			}
		}()
	}

	// HTTP handlers
	catalogHandler := handler.NewCatalogHandler(productService, categoryService, optionService)
	orderHandler := handler.NewOrderHandler(orderService)
	areaHandler := handler.NewAreaHandler(areaService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	storefrontHandler := handler.NewStorefrontHandler(storefrontService, automationService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, orderService)
	authHandler := handler.NewAuthHandler(authService, cfg.Cookie)
	userHandler := handler.NewUserHandler(userService)
	automationHandler := handler.NewAutomationHandler(automationService)
	webhookHandler := handler.NewWebhookHandler(webhookService)
	pwaHandler := handler.NewPWAHandler(installService)
	systemHandler := handler.NewSystemHandler(db.DB, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Report validation failures under json field names
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health endpoints outside API versioning
	systemHandler.RegisterRoutes(engine)

	// Login gets a stricter limit than the rest of the public surface
	loginRegistrar := router.RegistrarFunc(authHandler.RegisterPublicRoutes)
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		loginRegistrar = func(rg *gin.RouterGroup) {
			authHandler.RegisterPublicRoutes(rg.Group("", middleware.RateLimit(authLimiter)))
		}
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	if cfg.Cache.Enabled && cfg.Cache.MaxAge > 0 {
		r.UsePublic(middleware.PublicCache(cfg.Cache.MaxAge, cfg.Cache.StaleWhileRevalidate))
	}
	r.UseAdmin(
		middleware.SessionAuth(jwtService, revoker, cfg.Cookie.Name, log),
		middleware.NoStore(),
	)
	r.Public(
		storefrontHandler,
		checkoutHandler,
		router.RegistrarFunc(settingsHandler.RegisterPublicRoutes),
		router.RegistrarFunc(pwaHandler.RegisterPublicRoutes),
		loginRegistrar,
	)
	r.Admin(
		authHandler,
		catalogHandler,
		orderHandler,
		areaHandler,
		settingsHandler,
		automationHandler,
		webhookHandler,
		userHandler,
		pwaHandler,
	)
	r.Setup()

	// Create HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
