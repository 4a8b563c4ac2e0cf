package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartapp "github.com/boutique/backend/internal/application/cart"
	catalogapp "github.com/boutique/backend/internal/application/catalog"
	couponapp "github.com/boutique/backend/internal/application/coupon"
	eventapp "github.com/boutique/backend/internal/application/event"
	homepageapp "github.com/boutique/backend/internal/application/homepage"
	identityapp "github.com/boutique/backend/internal/application/identity"
	orderapp "github.com/boutique/backend/internal/application/order"
	reviewapp "github.com/boutique/backend/internal/application/review"
	walletapp "github.com/boutique/backend/internal/application/wallet"
	"github.com/boutique/backend/internal/domain/homepage"
	"github.com/boutique/backend/internal/domain/shared"
	"github.com/boutique/backend/internal/infrastructure/auth"
	"github.com/boutique/backend/internal/infrastructure/cache"
	"github.com/boutique/backend/internal/infrastructure/config"
	"github.com/boutique/backend/internal/infrastructure/event"
	"github.com/boutique/backend/internal/infrastructure/logger"
	"github.com/boutique/backend/internal/infrastructure/persistence"
	"github.com/boutique/backend/internal/infrastructure/scheduler"
	"github.com/boutique/backend/internal/infrastructure/storage"
	"github.com/boutique/backend/internal/infrastructure/telemetry"
	"github.com/boutique/backend/internal/interfaces/http/handler"
	"github.com/boutique/backend/internal/interfaces/http/middleware"
	"github.com/boutique/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Boutique Storefront API
//	@version		1.0
//	@description	Online boutique backend: catalog, homepage sections, cart, checkout, payment proof review, coupons, wallets and reviews.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// objectStorage is the union of the storage slices the catalog and the
// payment flow need; both S3 and the stub satisfy it.
type objectStorage interface {
	catalogapp.ObjectStorageService
	orderapp.ProofStorage
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Boutique Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Telemetry: tracing, metrics and continuous profiling. All of them
	// degrade to no-ops when disabled.
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logsProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	if logsProvider.IsEnabled() {
		bridged, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: cfg.Log.Output,
		}, logsProvider, cfg.Telemetry.ServiceName)
		if err != nil {
			log.Warn("Failed to bridge logs to the collector, keeping local logger", zap.Error(err))
		} else {
			log = bridged
			log.Info("Log export to collector enabled")
		}
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             cfg.Telemetry.ProfilingEnabled,
		ServerAddress:       cfg.Telemetry.PyroscopeAddress,
		ApplicationName:     cfg.Telemetry.ServiceName,
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
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

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log)
	if err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	walletRepo := persistence.NewGormWalletRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Event serializer and transactional outbox. Events written through
	// SaveWithEvents land in outbox_events in the same transaction as the
	// aggregate, and the processor republishes them to the bus.
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	orderRepo.SetOutboxEventSaver(outboxPublisher)

	// Object storage for payment proofs and product images
	var objStore objectStorage
	if cfg.Storage.Endpoint == "" {
		log.Warn("No storage endpoint configured, using stub object storage")
		objStore = storage.NewStubObjectStorage()
	} else {
		s3Store, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objStore = s3Store
	}

	// Application services
	classifier := homepage.NewClassifier(homepage.DefaultTaxonomy())
	sectionService := homepageapp.NewSectionService(productRepo, classifier, homepageapp.Config{
		SectionLimit:       cfg.Homepage.SectionLimit,
		MinSectionSize:     cfg.Homepage.MinSectionSize,
		MaxDynamicSections: cfg.Homepage.MaxDynamicSections,
		SampleSize:         cfg.Homepage.SampleSize,
		TopRatedMinRating:  cfg.Homepage.TopRatedMinRating,
		TopRatedMinCount:   cfg.Homepage.TopRatedMinCount,
		CacheTTL:           cfg.Homepage.CacheTTL,
	}, log)
	productService := catalogapp.NewProductService(productRepo, sectionService, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, log)
	brandService := catalogapp.NewBrandService(brandRepo, log)
	attachmentService := catalogapp.NewAttachmentService(objStore, cfg.Storage.PresignExpiration, log)
	cartService := cartapp.NewCartService(cartRepo, productRepo, log)
	orderService := orderapp.NewOrderService(orderRepo, cartRepo, productRepo, couponRepo, walletRepo, log)
	paymentService := orderapp.NewPaymentService(orderRepo, walletRepo, objStore, cfg.Storage.PresignExpiration, log)
	couponService := couponapp.NewCouponService(couponRepo, log)
	walletService := walletapp.NewWalletService(walletRepo, log)
	reviewService := reviewapp.NewReviewService(reviewRepo, productRepo, orderRepo, sectionService, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Identity: JWT with a Redis-backed token blacklist, in-memory when
	// Redis is unreachable
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
	}
	authService := identityapp.NewAuthService(userRepo, walletRepo, jwtService, blacklist, log)

	// Event bus with idempotent handlers. The outbox processor makes
	// delivery at-least-once, so handlers dedupe by event ID.
	eventBus := event.NewInMemoryEventBus(log)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	invalidationHandler := homepageapp.NewSectionInvalidationHandler(sectionService, log)
	handlers := event.WrapHandlersWithIdempotency(
		[]shared.EventHandler{invalidationHandler}, idempotencyStore, log,
	)
	for _, h := range handlers {
		eventBus.Subscribe(h)
	}
	log.Info("Event handlers registered",
		zap.Strings("homepage_invalidation_events", invalidationHandler.EventTypes()))

	// Store activity metrics. Subscribed unwrapped: the dedup store is keyed
	// by event ID and belongs to the invalidation handler, and counters
	// tolerate at-least-once redelivery.
	if meterProvider.IsEnabled() {
		storeMetrics, err := telemetry.NewStoreMetrics(telemetry.StoreMetricsConfig{
			Meter:    meterProvider.Meter("boutique.store"),
			Logger:   log,
			Provider: telemetry.NewGormStoreMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize store metrics", zap.Error(err))
		} else {
			storeMetrics.StartPeriodicCollection(ctx, 0, 0)
			defer storeMetrics.Stop()
			eventBus.Subscribe(telemetry.NewStoreMetricsHandler(storeMetrics, log))
		}
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
	if err := outboxProcessor.Start(ctx); err != nil {
		log.Fatal("Failed to start outbox processor", zap.Error(err))
	}
	defer func() {
		if err := outboxProcessor.Stop(context.Background()); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}()
	log.Info("Outbox processor started",
		zap.Int("batch_size", outboxProcessorConfig.BatchSize),
		zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
	)

	sectionWarmer := scheduler.NewSectionWarmer(scheduler.DefaultWarmerConfig(), sectionService, log)
	if err := sectionWarmer.Start(ctx); err != nil {
		log.Fatal("Failed to start section warmer", zap.Error(err))
	}
	defer func() {
		if err := sectionWarmer.Stop(context.Background()); err != nil {
			log.Error("Error stopping section warmer", zap.Error(err))
		}
	}()

	// Inject the bus into services that publish events
	productService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	brandHandler := handler.NewBrandHandler(brandService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	homepageHandler := handler.NewHomepageHandler(sectionService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	couponHandler := handler.NewCouponHandler(couponService)
	walletHandler := handler.NewWalletHandler(walletService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	authHandler := handler.NewAuthHandler(authService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
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

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}
	if profiler.IsEnabled() {
		engine.Use(middleware.Profiling())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/storefront",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Public storefront routes
	storefrontRoutes := router.NewDomainGroup("storefront", "/storefront")
	storefrontRoutes.GET("/products", productHandler.List)
	storefrontRoutes.GET("/products/:id", productHandler.GetByID)
	storefrontRoutes.GET("/products/:id/reviews", reviewHandler.ListByProduct)
	storefrontRoutes.GET("/categories", categoryHandler.List)
	storefrontRoutes.GET("/categories/:slug", categoryHandler.GetBySlug)
	storefrontRoutes.GET("/brands", brandHandler.List)
	storefrontRoutes.GET("/homepage", homepageHandler.GetSections)

	// Authentication and account routes
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.RateLimit(authLimiter))
	}
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetProfile)
	authRoutes.PUT("/me", authHandler.UpdateProfile)
	authRoutes.PUT("/me/password", authHandler.ChangePassword)

	// Customer routes (authenticated)
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.DELETE("", cartHandler.Clear)
	cartRoutes.POST("/items", cartHandler.AddItem)
	cartRoutes.PUT("/items/:productId", cartHandler.UpdateItem)
	cartRoutes.DELETE("/items/:productId", cartHandler.RemoveItem)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("/checkout", orderHandler.Checkout)
	orderRoutes.GET("", orderHandler.ListMine)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)
	orderRoutes.POST("/:id/payment/proof-upload", paymentHandler.RequestProofUpload)
	orderRoutes.POST("/:id/payment/proof", paymentHandler.SubmitProof)

	couponRoutes := router.NewDomainGroup("coupons", "/coupons")
	couponRoutes.POST("/preview", couponHandler.Preview)
	couponRoutes.GET("/:code", couponHandler.GetByCode)

	walletRoutes := router.NewDomainGroup("wallet", "/wallet")
	walletRoutes.GET("", walletHandler.Get)
	walletRoutes.GET("/transactions", walletHandler.Transactions)

	reviewRoutes := router.NewDomainGroup("reviews", "/reviews")
	reviewRoutes.POST("", reviewHandler.Create)
	reviewRoutes.POST("/:id/helpful", reviewHandler.MarkHelpful)
	reviewRoutes.DELETE("/:id", reviewHandler.Delete)

	// Admin routes
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.GET("/products", productHandler.ListAll)
	adminRoutes.POST("/products", productHandler.Create)
	adminRoutes.PUT("/products/:id", productHandler.Update)
	adminRoutes.DELETE("/products/:id", productHandler.Delete)
	adminRoutes.PATCH("/products/:id/stock", productHandler.AdjustStock)
	adminRoutes.PUT("/products/:id/images", productHandler.SetImages)
	adminRoutes.POST("/products/:id/images/upload", attachmentHandler.RequestImageUpload)
	adminRoutes.DELETE("/products/images", attachmentHandler.RemoveImage)
	adminRoutes.POST("/categories", categoryHandler.Create)
	adminRoutes.PUT("/categories/:id", categoryHandler.Update)
	adminRoutes.DELETE("/categories/:id", categoryHandler.Delete)
	adminRoutes.POST("/brands", brandHandler.Create)
	adminRoutes.PUT("/brands/:id", brandHandler.Update)
	adminRoutes.DELETE("/brands/:id", brandHandler.Delete)
	adminRoutes.GET("/orders", orderHandler.ListAll)
	adminRoutes.GET("/orders/:id/payment/proof", paymentHandler.ProofDownloadURL)
	adminRoutes.POST("/orders/:id/payment/approve", paymentHandler.Approve)
	adminRoutes.POST("/orders/:id/payment/reject", paymentHandler.Reject)
	adminRoutes.PUT("/orders/:id/shipping", paymentHandler.UpdateShipping)
	adminRoutes.GET("/coupons", couponHandler.List)
	adminRoutes.POST("/coupons", couponHandler.Create)
	adminRoutes.POST("/coupons/:id/deactivate", couponHandler.Deactivate)
	adminRoutes.DELETE("/coupons/:id", couponHandler.Delete)
	adminRoutes.POST("/wallets/:userId/credit", walletHandler.Credit)
	adminRoutes.POST("/homepage/invalidate", homepageHandler.Invalidate)

	// System routes: info/ping are public, the outbox DLQ is admin-only
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	outboxRoutes := router.NewDomainGroup("outbox", "/system/outbox")
	outboxRoutes.Use(middleware.AdminOnly())
	outboxRoutes.GET("/dead", outboxHandler.GetDeadLetterEntries)
	outboxRoutes.POST("/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	outboxRoutes.GET("/stats", outboxHandler.GetStats)
	outboxRoutes.GET("/:id", outboxHandler.GetEntry)
	outboxRoutes.POST("/:id/retry", outboxHandler.RetryDeadEntry)

	r.Register(storefrontRoutes).
		Register(authRoutes).
		Register(cartRoutes).
		Register(orderRoutes).
		Register(couponRoutes).
		Register(walletRoutes).
		Register(reviewRoutes).
		Register(adminRoutes).
		Register(systemRoutes).
		Register(outboxRoutes)

	r.Setup()

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness of the process and its database
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.FromGin(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
