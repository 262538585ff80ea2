package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gamedex/gamedex-backend/internal/config"
	"github.com/gamedex/gamedex-backend/internal/handler"
	"github.com/gamedex/gamedex-backend/internal/middleware"
	"github.com/gamedex/gamedex-backend/internal/migration"
	"github.com/gamedex/gamedex-backend/internal/repository"
	"github.com/gamedex/gamedex-backend/internal/routes"
	"github.com/gamedex/gamedex-backend/internal/service"
	pkgcache "github.com/gamedex/gamedex-backend/pkg/cache"
	"github.com/gamedex/gamedex-backend/pkg/jwt"
	pkglogger "github.com/gamedex/gamedex-backend/pkg/logger"
	pkgredis "github.com/gamedex/gamedex-backend/pkg/redis"
	"github.com/gamedex/gamedex-backend/pkg/webhook"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           GameDex Backend API
// @version         1.0
// @description     Community game catalog - corrections, submissions and moderation API
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

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	logger := pkglogger.GetLogger()
	logger.Info().Str("env", env).Strs("env_files", dotenvFiles).Msg("Starting gamedex-backend")

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info().Msg("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis is optional: caching and rate limiting degrade gracefully
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		redisClient = nil
	} else {
		logger.Info().Msg("Connected to Redis")
	}

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
	}

	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiresIn,
		cfg.JWT.RefreshIn,
	)

	webhookSink := webhook.NewSink(
		cfg.Webhooks.Targets,
		time.Duration(cfg.Webhooks.TimeoutSeconds)*time.Second,
	)
	if webhookSink.Enabled() {
		logger.Info().Int("targets", len(cfg.Webhooks.Targets)).Msg("Webhook notifications enabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameRepository(db)
	correctionRepo := repository.NewCorrectionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	moderationRepo := repository.NewModerationRepository(db)
	applicationRepo := repository.NewReviewerApplicationRepository(db)
	bannedRepo := repository.NewBannedProviderRepository(db)

	// Services
	notifier := service.NewNotifier(webhookSink)
	authService := service.NewAuthService(userRepo, bannedRepo, jwtManager)
	gameService := service.NewGameService(gameRepo, cacheService)
	correctionService := service.NewCorrectionService(correctionRepo, gameRepo, userRepo, auditRepo, cacheService, notifier)
	submissionService := service.NewSubmissionService(submissionRepo, gameRepo, userRepo, auditRepo, cacheService, notifier)
	moderationService := service.NewModerationService(userRepo, moderationRepo, applicationRepo, bannedRepo, cfg, cacheService)
	userService := service.NewUserService(userRepo)
	auditService := service.NewAuditService(auditRepo)
	leaderboardService := service.NewLeaderboardService(userRepo, cacheService)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	gameHandler := handler.NewGameHandler(gameService, auditService)
	correctionHandler := handler.NewCorrectionHandler(correctionService)
	submissionHandler := handler.NewSubmissionHandler(submissionService)
	userHandler := handler.NewUserHandler(userService, moderationService)
	adminHandler := handler.NewAdminHandler(userService, moderationService)
	auditHandler := handler.NewAuditHandler(auditService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "X-Cache"},
		MaxAge:           86400,
	}))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	if redisClient != nil && !cfg.IsDevelopment() {
		limitCfg := middleware.DefaultRateLimitConfig()
		if cfg.RateLimit.RequestsPerMinute > 0 {
			limitCfg.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		}
		router.Use(middleware.RateLimit(redisClient, limitCfg))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "gamedex-backend",
			"time":    time.Now().Unix(),
		})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router,
		authHandler,
		gameHandler,
		correctionHandler,
		submissionHandler,
		userHandler,
		adminHandler,
		auditHandler,
		leaderboardHandler,
		jwtManager,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Forced shutdown")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	logger.Info().Msg("Server stopped")
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
