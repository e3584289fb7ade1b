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
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	billingapp "github.com/vetcare/backend/internal/application/billing"
	catalogapp "github.com/vetcare/backend/internal/application/catalog"
	clinicapp "github.com/vetcare/backend/internal/application/clinic"
	identityapp "github.com/vetcare/backend/internal/application/identity"
	inventoryapp "github.com/vetcare/backend/internal/application/inventory"
	notificationapp "github.com/vetcare/backend/internal/application/notification"
	partnerapp "github.com/vetcare/backend/internal/application/partner"
	procurementapp "github.com/vetcare/backend/internal/application/procurement"
	"github.com/vetcare/backend/internal/domain/identity"
	"github.com/vetcare/backend/internal/infrastructure/auth"
	"github.com/vetcare/backend/internal/infrastructure/cache"
	"github.com/vetcare/backend/internal/infrastructure/config"
	"github.com/vetcare/backend/internal/infrastructure/event"
	"github.com/vetcare/backend/internal/infrastructure/logger"
	"github.com/vetcare/backend/internal/infrastructure/persistence"
	"github.com/vetcare/backend/internal/infrastructure/telemetry"
	"github.com/vetcare/backend/internal/interfaces/http/handler"
	"github.com/vetcare/backend/internal/interfaces/http/middleware"
)

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

	log.Info("Starting VetCare Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize distributed tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
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
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Initialize metrics
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:             meterProvider.Meter(telemetry.TracerName),
			Logger:            log,
			InventoryProvider: telemetry.NewGormInventoryMetricsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		hospitalProvider := telemetry.NewGormHospitalProvider(db.DB)
		businessMetrics.StartPeriodicCollection(context.Background(), hospitalProvider, 5*time.Minute)
		defer businessMetrics.Stop()
		log.Info("Business metrics collection started")
	}

	// Connect to Redis when configured. The token blacklist and the rate
	// limiter fall back to in-memory implementations without it.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory token blacklist and rate limiter",
				zap.String("addr", cfg.Redis.Addr()),
				zap.Error(err),
			)
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Error("Error closing Redis client", zap.Error(err))
				}
			}()
			log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	// Initialize repositories
	hospitalRepo := persistence.NewGormHospitalRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	guardianRepo := persistence.NewGormGuardianRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	animalRepo := persistence.NewGormAnimalRepository(db.DB)
	appointmentRepo := persistence.NewGormAppointmentRepository(db.DB)
	recordRepo := persistence.NewGormMedicalRecordRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	inventoryTxRepo := persistence.NewGormInventoryTransactionRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	txManager := persistence.NewGormTransactionManager(db.DB)

	// Identity services (auth, users)
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo)

	// Application services
	hospitalService := clinicapp.NewHospitalService(hospitalRepo, userRepo, txManager)
	guardianService := partnerapp.NewGuardianService(guardianRepo, animalRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo, purchaseOrderRepo)
	animalService := clinicapp.NewAnimalService(animalRepo, guardianRepo)
	appointmentService := clinicapp.NewAppointmentService(appointmentRepo, animalRepo, userRepo)
	recordService := clinicapp.NewMedicalRecordService(recordRepo, animalRepo)
	productService := catalogapp.NewProductService(productRepo, stockRepo)
	inventoryService := inventoryapp.NewInventoryService(stockRepo, inventoryTxRepo, productRepo, txManager)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, animalRepo, guardianRepo)
	paymentService := billingapp.NewPaymentService(paymentRepo, invoiceRepo, txManager)
	purchaseOrderService := procurementapp.NewPurchaseOrderService(
		purchaseOrderRepo, supplierRepo, productRepo, inventoryService, txManager,
	)
	notificationService := notificationapp.NewNotificationService(notificationRepo)

	// Initialize event bus and cross-context handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Payment, receiving and low-stock events produce in-app notifications
	notificationHandler := notificationapp.NewEventNotificationHandler(notificationService, log)
	eventBus.Subscribe(notificationHandler)

	log.Info("Event handlers registered",
		zap.Strings("notification_events", notificationHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish domain events
	invoiceService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)
	inventoryService.SetEventPublisher(eventBus)
	purchaseOrderService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	hospitalHandler := handler.NewHospitalHandler(hospitalService)
	guardianHandler := handler.NewGuardianHandler(guardianService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	animalHandler := handler.NewAnimalHandler(animalService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService)
	recordHandler := handler.NewMedicalRecordHandler(recordService)
	productHandler := handler.NewProductHandler(productService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	notificationHTTPHandler := handler.NewNotificationHandler(notificationService)
	systemHandler := handler.NewSystemHandler(db.DB)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, tracing, CORS, body limit, rate limiting.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

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
		var limiter middleware.RateLimiter
		if redisClient != nil {
			limiter = middleware.NewRedisRateLimiter(redisClient, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		} else {
			limiter = middleware.NewInMemoryRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		}
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// API routes behind JWT authentication. Login, refresh and hospital
	// onboarding stay public.
	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/hospitals",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	// Identity
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.PUT("/auth/password", authHandler.ChangePassword)

	adminOnly := middleware.RequireRoles(identity.RoleAdmin.String())
	billingRoles := middleware.RequireRoles(identity.RoleAdmin.String(), identity.RoleVet.String())

	api.POST("/users", adminOnly, userHandler.Create)
	api.GET("/users", userHandler.List)
	api.GET("/users/:id", userHandler.GetByID)
	api.PUT("/users/:id", adminOnly, userHandler.Update)
	api.POST("/users/:id/activate", adminOnly, userHandler.Activate)
	api.POST("/users/:id/deactivate", adminOnly, userHandler.Deactivate)

	// Clinic
	api.POST("/hospitals", hospitalHandler.Register)
	api.GET("/hospitals/current", hospitalHandler.GetCurrent)
	api.PUT("/hospitals/current", hospitalHandler.UpdateCurrent)

	api.POST("/animals", animalHandler.Register)
	api.GET("/animals", animalHandler.List)
	api.GET("/animals/:id", animalHandler.GetByID)
	api.PUT("/animals/:id", animalHandler.Update)
	api.POST("/animals/:id/status", animalHandler.ChangeStatus)
	api.GET("/animals/:id/medical-records", recordHandler.ListByAnimal)

	api.POST("/appointments", appointmentHandler.Schedule)
	api.GET("/appointments", appointmentHandler.List)
	api.GET("/appointments/:id", appointmentHandler.GetByID)
	api.PUT("/appointments/:id/reschedule", appointmentHandler.Reschedule)
	api.POST("/appointments/:id/status", appointmentHandler.ChangeStatus)

	api.POST("/medical-records", recordHandler.Create)
	api.GET("/medical-records", recordHandler.List)
	api.GET("/medical-records/:id", recordHandler.GetByID)
	api.PUT("/medical-records/:id", recordHandler.Update)
	api.POST("/medical-records/:id/finalize", recordHandler.Finalize)

	// Partners
	api.POST("/guardians", guardianHandler.Create)
	api.GET("/guardians", guardianHandler.List)
	api.GET("/guardians/:id", guardianHandler.GetByID)
	api.PUT("/guardians/:id", guardianHandler.Update)
	api.POST("/guardians/:id/deactivate", guardianHandler.Deactivate)
	api.DELETE("/guardians/:id", guardianHandler.Delete)
	api.GET("/guardians/:id/animals", animalHandler.ListByGuardian)

	api.POST("/suppliers", supplierHandler.Create)
	api.GET("/suppliers", supplierHandler.List)
	api.GET("/suppliers/:id", supplierHandler.GetByID)
	api.PUT("/suppliers/:id", supplierHandler.Update)
	api.POST("/suppliers/:id/deactivate", supplierHandler.Deactivate)
	api.DELETE("/suppliers/:id", supplierHandler.Delete)

	// Catalog
	api.POST("/products", productHandler.Create)
	api.GET("/products", productHandler.List)
	api.GET("/products/sku/:sku", productHandler.GetBySKU)
	api.GET("/products/:id", productHandler.GetByID)
	api.PUT("/products/:id", productHandler.Update)
	api.POST("/products/:id/deactivate", productHandler.Deactivate)
	api.DELETE("/products/:id", productHandler.Delete)

	// Inventory
	api.GET("/inventory/stocks", inventoryHandler.ListStock)
	api.GET("/inventory/stocks/product/:id", inventoryHandler.GetProductStock)
	api.POST("/inventory/movements", inventoryHandler.RecordMovement)
	api.POST("/inventory/adjustments", inventoryHandler.AdjustStock)
	api.GET("/inventory/transactions", inventoryHandler.ListTransactions)
	api.GET("/inventory/transactions/:id", inventoryHandler.GetTransaction)
	api.GET("/inventory/transactions/reference/:type/:id", inventoryHandler.ListTransactionsByReference)

	// Billing
	api.POST("/invoices", invoiceHandler.Create)
	api.GET("/invoices", invoiceHandler.List)
	api.GET("/invoices/:id", invoiceHandler.GetByID)
	api.PUT("/invoices/:id", billingRoles, invoiceHandler.Update)
	api.POST("/invoices/:id/items", invoiceHandler.AddItem)
	api.PUT("/invoices/:id/items/:itemId", invoiceHandler.UpdateItem)
	api.DELETE("/invoices/:id/items/:itemId", invoiceHandler.RemoveItem)
	api.POST("/invoices/:id/cancel", invoiceHandler.Cancel)
	api.DELETE("/invoices/:id", billingRoles, invoiceHandler.Delete)
	api.GET("/invoices/:id/payments", paymentHandler.ListByInvoice)

	api.POST("/payments", paymentHandler.Create)
	api.GET("/payments", paymentHandler.List)
	api.GET("/payments/:id", paymentHandler.GetByID)
	api.POST("/payments/:id/refund", paymentHandler.Refund)

	// Procurement
	api.POST("/purchase-orders", purchaseOrderHandler.Create)
	api.GET("/purchase-orders", purchaseOrderHandler.List)
	api.GET("/purchase-orders/:id", purchaseOrderHandler.GetByID)
	api.PUT("/purchase-orders/:id", purchaseOrderHandler.Update)
	api.POST("/purchase-orders/:id/items", purchaseOrderHandler.AddItem)
	api.PUT("/purchase-orders/:id/items/:itemId", purchaseOrderHandler.UpdateItem)
	api.DELETE("/purchase-orders/:id/items/:itemId", purchaseOrderHandler.RemoveItem)
	api.POST("/purchase-orders/:id/submit", purchaseOrderHandler.Submit)
	api.POST("/purchase-orders/:id/approve", purchaseOrderHandler.Approve)
	api.POST("/purchase-orders/:id/order", purchaseOrderHandler.MarkOrdered)
	api.POST("/purchase-orders/:id/cancel", purchaseOrderHandler.Cancel)
	api.POST("/purchase-orders/:id/receive", purchaseOrderHandler.Receive)
	api.DELETE("/purchase-orders/:id", purchaseOrderHandler.Delete)

	// Notifications
	api.GET("/notifications", notificationHTTPHandler.List)
	api.GET("/notifications/unread-count", notificationHTTPHandler.UnreadCount)
	api.POST("/notifications/:id/read", notificationHTTPHandler.MarkRead)

	// System
	api.GET("/system/info", systemHandler.GetSystemInfo)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
