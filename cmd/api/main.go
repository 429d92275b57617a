package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lumora/memoria-backend/internal/config"
	"github.com/lumora/memoria-backend/internal/gateway"
	"github.com/lumora/memoria-backend/internal/handler"
	"github.com/lumora/memoria-backend/internal/middleware"
	"github.com/lumora/memoria-backend/internal/migration"
	"github.com/lumora/memoria-backend/internal/repository"
	"github.com/lumora/memoria-backend/internal/service"
	pkgcache "github.com/lumora/memoria-backend/pkg/cache"
	"github.com/lumora/memoria-backend/pkg/jwt"
	pkglogger "github.com/lumora/memoria-backend/pkg/logger"
	pkgredis "github.com/lumora/memoria-backend/pkg/redis"
	pkgstorage "github.com/lumora/memoria-backend/pkg/storage"
)

// @title           Memoria Backend API
// @version         1.0
// @description     Online memorial pages - backend API
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	pkglogger.Init()
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		pkglogger.Info("Warning: Failed to connect to database: %v (continuing without DB)", err)
		db = nil
	} else {
		pkglogger.Info("Connected to MySQL")
		if err := migration.Run(db); err != nil {
			pkglogger.Info("Migration warning: %v", err)
		}
	}

	// Redis
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Info("Warning: Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
		pkglogger.Info("Cache service initialized")
	}

	// S3-compatible storage
	var s3Client *pkgstorage.S3Client
	if cfg.Storage.Bucket != "" {
		var s3Err error
		s3Client, s3Err = pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if s3Err != nil {
			pkglogger.Info("Warning: S3 storage init failed: %v (continuing without S3)", s3Err)
			s3Client = nil
		} else {
			pkglogger.Info("Connected to S3 storage")
		}
	}

	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTTLHours)*time.Hour,
		time.Duration(cfg.JWT.RefreshTTLHours)*time.Hour,
	)

	router := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "memoria-backend",
			"time":    time.Now().Unix(),
		})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes (only if DB is connected)
	if db != nil {
		memberRepo := repository.NewMemberRepository(db)
		memorialRepo := repository.NewMemorialRepository(db)
		tributeRepo := repository.NewTributeRepository(db)
		photoRepo := repository.NewPhotoRepository(db)
		paymentRepo := repository.NewPaymentRepository(db)

		verifier := gateway.NewPaystackClient(cfg.Payment.BaseURL, cfg.Payment.SecretKey)

		authSvc := service.NewAuthService(memberRepo, jwtManager)
		memorialSvc := service.NewMemorialService(memorialRepo, photoRepo, cacheService)
		tributeSvc := service.NewTributeService(tributeRepo, memorialRepo, cacheService)
		paymentSvc := service.NewPaymentService(paymentRepo, memorialRepo, verifier, cfg, cacheService)
		mediaSvc := service.NewMediaService(photoRepo, memorialRepo, s3Client, cacheService)
		qrSvc := service.NewQRService(memorialRepo, cfg.Site.PublicBaseURL)
		adminSvc := service.NewAdminService(memorialRepo, memberRepo, cacheService)

		authHandler := handler.NewAuthHandler(authSvc)
		memorialHandler := handler.NewMemorialHandler(memorialSvc, qrSvc)
		tributeHandler := handler.NewTributeHandler(tributeSvc)
		paymentHandler := handler.NewPaymentHandler(paymentSvc)
		mediaHandler := handler.NewMediaHandler(mediaSvc)
		adminHandler := handler.NewAdminHandler(adminSvc)

		api := router.Group("/api/v1")

		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		// Public pages. OptionalAuth so owners and admins get their
		// elevated view on the same routes.
		public := api.Group("")
		public.Use(middleware.OptionalAuth(jwtManager))
		public.GET("/memorials/:id", memorialHandler.GetMemorial)
		public.GET("/memorials/:id/qr", memorialHandler.GetQRCode)
		public.GET("/memorials/:id/tributes", tributeHandler.ListTributes)
		public.POST("/memorials/:id/tributes", tributeHandler.CreateTribute)

		authed := api.Group("")
		authed.Use(middleware.JWTAuth(jwtManager))
		authed.POST("/memorials", memorialHandler.CreateMemorial)
		authed.PATCH("/memorials/:id", memorialHandler.UpdateMemorial)
		authed.GET("/dashboard/memorials", memorialHandler.ListMine)
		authed.POST("/payments/verify", paymentHandler.VerifyPayment)
		authed.GET("/memorials/:id/payments", paymentHandler.ListTransactions)
		authed.POST("/memorials/:id/tributes/:tribute_id/approve", tributeHandler.ApproveTribute)
		authed.DELETE("/memorials/:id/tributes/:tribute_id", tributeHandler.RemoveTribute)
		authed.POST("/memorials/:id/photos", mediaHandler.UploadPhoto)
		authed.DELETE("/memorials/:id/photos/:photo_id", mediaHandler.DeletePhoto)

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(jwtManager))
		admin.Use(middleware.RequireAdmin())
		admin.GET("/memorials", adminHandler.ListMemorials)
		admin.PUT("/memorials/:id/visibility", adminHandler.SetVisibility)
		admin.PUT("/members/:id/admin", adminHandler.SetMemberAdmin)
	} else {
		pkglogger.Info("Warning: API routes disabled (no database connection)")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.Info("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
