package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lanzy-lanzy/tailoring/internal/config"
	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/handler"
	"github.com/lanzy-lanzy/tailoring/internal/middleware"
	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"github.com/lanzy-lanzy/tailoring/internal/service"
	"github.com/lanzy-lanzy/tailoring/internal/sms"
	"github.com/lanzy-lanzy/tailoring/internal/sse"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting tailoring service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Customer{},
		&entity.Fabric{},
		&entity.Accessory{},
		&entity.InventoryLog{},
		&entity.GarmentType{},
		&entity.GarmentTypeAccessory{},
		&entity.Order{},
		&entity.OrderAccessory{},
		&entity.TailoringTask{},
		&entity.TailorCommission{},
		&entity.Payment{},
		&entity.Rework{},
		&entity.ReworkMaterial{},
		&entity.Notification{},
		&entity.SMSLog{},
	); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)

	if err := seedAdmin(context.Background(), repos, zapLogger); err != nil {
		zapLogger.Warn("Admin seed failed", zap.Error(err))
	}

	hub := sse.NewHub()
	gateway := sms.NewClient(cfg.SMS.APIKey, cfg.SMS.SenderName)
	if cfg.SMS.APIKey == "" {
		zapLogger.Warn("SMS gateway not configured, outbound SMS disabled")
	}

	notificationSvc := service.NewNotificationService(repos, rdb, hub, zapLogger)
	smsSvc := service.NewSMSService(repos, gateway, zapLogger)
	inventorySvc := service.NewInventoryService(db, repos, zapLogger)
	customerSvc := service.NewCustomerService(repos)
	garmentSvc := service.NewGarmentService(repos)
	orderSvc := service.NewOrderService(db, repos, inventorySvc, notificationSvc, zapLogger)
	taskSvc := service.NewTaskService(db, repos, notificationSvc, smsSvc, zapLogger)
	paymentSvc := service.NewPaymentService(db, repos, taskSvc, zapLogger)
	reworkSvc := service.NewReworkService(db, repos, inventorySvc, notificationSvc, smsSvc, zapLogger)
	userSvc := service.NewUserService(repos)
	authSvc := service.NewAuthService(repos, cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.Issuer)
	dashboardSvc := service.NewDashboardService(repos)
	reportSvc := service.NewReportService(repos)

	handlers := &handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, userSvc),
		Customer:     handler.NewCustomerHandler(customerSvc),
		Inventory:    handler.NewInventoryHandler(inventorySvc),
		Garment:      handler.NewGarmentHandler(garmentSvc),
		Order:        handler.NewOrderHandler(orderSvc),
		Task:         handler.NewTaskHandler(taskSvc),
		Payment:      handler.NewPaymentHandler(paymentSvc),
		Rework:       handler.NewReworkHandler(reworkSvc),
		Notification: handler.NewNotificationHandler(notificationSvc),
		Report:       handler.NewReportHandler(reportSvc),
		Dashboard:    handler.NewDashboardHandler(dashboardSvc),
		User:         handler.NewUserHandler(userSvc),
		SSE:          handler.NewSSEHandler(hub),
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // Disable for SSE long-lived connections
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// seedAdmin creates the first admin account when the users table has none,
// so a fresh deployment is reachable.
func seedAdmin(ctx context.Context, repos *repository.Repositories, zapLogger *zap.Logger) error {
	admins, err := repos.User.FindAdmins(ctx)
	if err != nil {
		return err
	}
	if len(admins) > 0 {
		return nil
	}

	password := config.GetEnvOrDefault("ADMIN_PASSWORD", "changemenow")
	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &entity.User{
		ID:           uuid.New().String()[:32],
		Username:     config.GetEnvOrDefault("ADMIN_USERNAME", "admin"),
		PasswordHash: hash,
		Name:         "Shop Admin",
		Role:         entity.RoleAdmin,
		Status:       entity.UserStatusActive,
	}
	if err := repos.User.Create(ctx, admin); err != nil {
		return err
	}
	zapLogger.Info("Seeded default admin account", zap.String("username", admin.Username))
	return nil
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", h.Auth.Login)

		// SSE needs auth but EventSource cannot set headers, so the
		// middleware also accepts a query param token.
		sseGroup := v1.Group("/sse")
		sseGroup.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			sseGroup.GET("/events", h.SSE.Stream)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.GET("/auth/me", h.Auth.Me)

			// Dashboard
			authorized.GET("/dashboard", h.Dashboard.Summary)

			// Customers
			customers := authorized.Group("/customers")
			{
				customers.GET("", h.Customer.List)
				customers.POST("", h.Customer.Create)
				customers.GET("/:id", h.Customer.Get)
				customers.PUT("/:id", h.Customer.Update)
				customers.DELETE("/:id", h.Customer.Delete)
			}

			// Fabrics
			fabrics := authorized.Group("/fabrics")
			{
				fabrics.GET("", h.Inventory.ListFabrics)
				fabrics.POST("", h.Inventory.CreateFabric)
				fabrics.GET("/:id", h.Inventory.GetFabric)
				fabrics.PUT("/:id", h.Inventory.UpdateFabric)
				fabrics.DELETE("/:id", h.Inventory.DeleteFabric)
				fabrics.POST("/:id/add-stock", h.Inventory.AddFabricStock)
				fabrics.POST("/:id/adjust-stock", middleware.RequireRole(entity.RoleAdmin), h.Inventory.AdjustFabricStock)
			}

			// Accessories
			accessories := authorized.Group("/accessories")
			{
				accessories.GET("", h.Inventory.ListAccessories)
				accessories.POST("", h.Inventory.CreateAccessory)
				accessories.GET("/:id", h.Inventory.GetAccessory)
				accessories.PUT("/:id", h.Inventory.UpdateAccessory)
				accessories.DELETE("/:id", h.Inventory.DeleteAccessory)
				accessories.POST("/:id/add-stock", h.Inventory.AddAccessoryStock)
				accessories.POST("/:id/adjust-stock", middleware.RequireRole(entity.RoleAdmin), h.Inventory.AdjustAccessoryStock)
			}

			// Movement trail
			authorized.GET("/inventory/logs", h.Inventory.ListLogs)
			authorized.GET("/inventory/low-stock", h.Inventory.LowStock)

			// Garment catalog
			garments := authorized.Group("/garment-types")
			{
				garments.GET("", h.Garment.List)
				garments.POST("", h.Garment.Create)
				garments.GET("/:id", h.Garment.Get)
				garments.PUT("/:id", h.Garment.Update)
				garments.DELETE("/:id", h.Garment.Delete)
			}

			// Orders
			orders := authorized.Group("/orders")
			{
				orders.GET("", h.Order.List)
				orders.POST("", h.Order.Create)
				orders.GET("/:id", h.Order.Get)
				orders.PUT("/:id", h.Order.Update)
				orders.POST("/:id/cancel", h.Order.Cancel)
			}

			// Pickup queues
			authorized.GET("/claims", h.Order.ReadyForClaim)
			authorized.GET("/reclaims", h.Order.ReadyForReclaim)

			// Tailoring tasks
			tasks := authorized.Group("/tasks")
			{
				tasks.GET("", h.Task.List)
				tasks.GET("/:id", h.Task.Get)
				tasks.POST("/:id/start", h.Task.Start)
				tasks.POST("/:id/complete", h.Task.Complete)
				tasks.POST("/:id/approve", middleware.RequireRole(entity.RoleAdmin), h.Task.Approve)
				tasks.POST("/:id/reassign", middleware.RequireRole(entity.RoleAdmin), h.Task.Reassign)
				tasks.POST("/:id/claim-commission", h.Task.ClaimCommission)
			}

			// Payments and pickup settlement
			payments := authorized.Group("/payments")
			{
				payments.GET("", h.Payment.List)
				payments.POST("", h.Payment.Record)
				payments.GET("/:id", h.Payment.Get)
			}
			authorized.POST("/claims/:orderId/process", h.Payment.ProcessClaim)
			authorized.POST("/reclaims/:orderId/process", h.Payment.ProcessReclaim)

			// Commissions
			commissions := authorized.Group("/commissions")
			{
				commissions.GET("", h.Payment.ListCommissions)
				commissions.GET("/summary", h.Payment.CommissionSummary)
				commissions.POST("/:id/pay", middleware.RequireRole(entity.RoleAdmin), h.Payment.PayCommission)
			}

			// Reworks
			reworks := authorized.Group("/reworks")
			{
				reworks.GET("", h.Rework.List)
				reworks.POST("", h.Rework.Create)
				reworks.GET("/:id", h.Rework.Get)
				reworks.POST("/:id/start", h.Rework.Start)
				reworks.POST("/:id/complete", h.Rework.Complete)
			}

			// Notifications
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.POST("/:id/read", h.Notification.MarkRead)
				notifications.POST("/read-all", h.Notification.MarkAllRead)
				notifications.DELETE("/:id", h.Notification.Delete)
			}

			// Reports
			reports := authorized.Group("/reports")
			reports.Use(middleware.RequireRole(entity.RoleAdmin))
			{
				reports.GET("/commissions", h.Report.CommissionSummary)
				reports.GET("/inventory-logs", h.Report.InventoryLogs)
				reports.GET("/production", h.Report.Production)
				reports.GET("/sales", h.Report.Sales)
			}

			// Staff accounts
			users := authorized.Group("/users")
			{
				users.GET("/tailors", h.User.ListTailors)
				users.GET("", middleware.RequireRole(entity.RoleAdmin), h.User.List)
				users.POST("", middleware.RequireRole(entity.RoleAdmin), h.User.Create)
				users.GET("/:id", h.User.Get)
				users.PUT("/:id", middleware.RequireRole(entity.RoleAdmin), h.User.Update)
			}
		}
	}
}
