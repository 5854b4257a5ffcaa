package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"letrario/database"
	"letrario/internal/cache"
	"letrario/internal/config"
	"letrario/internal/http-api/handler"
	"letrario/internal/http-api/middleware"
	"letrario/internal/http-api/repository"
	"letrario/internal/http-api/service"
	"letrario/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("could not get database instance: %v", err)
	}
	defer sqlDB.Close()

	// Reading cache: Redis when configured, in-process otherwise.
	var readingCache cache.ReadingCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, logger)
		if err != nil {
			log.Fatalf("could not connect to redis: %v", err)
		}
		readingCache = redisCache
		logger.Info("Using Redis reading cache", "addr", cfg.RedisAddr)
	} else {
		readingCache = cache.NewMemoryCache()
		logger.Info("Using in-process reading cache")
	}

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("could not init object storage: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	workRepo := repository.NewWorkRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	sourceRepo := repository.NewSourceRepository(db)
	readingListRepo := repository.NewReadingListRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	lecturasService := service.NewLecturasService(
		sourceRepo, workRepo, chapterRepo, readingCache, cfg.ReadingCacheTTL, logger)
	readingListService := service.NewReadingListService(
		readingListRepo, activityRepo, workRepo, chapterRepo, lecturasService, logger)
	activityService := service.NewActivityService(activityRepo)
	contentService := service.NewContentService(workRepo, chapterRepo, store)

	// HTTP server
	if cfg.GoEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.RateLimit(rate.Limit(20), 40))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	handler.NewAuthHandler(authService).RegisterRoutes(authGroup)

	public := api.Group("/")
	handler.NewContentHandler(contentService).RegisterRoutes(public)

	optional := api.Group("/")
	optional.Use(middleware.OptionalAuth(authService))
	handler.NewLecturasHandler(lecturasService, logger).RegisterRoutes(optional)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(authService))
	handler.NewReadingListHandler(readingListService).RegisterRoutes(protected)
	handler.NewActivityHandler(activityService).RegisterRoutes(protected)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("API server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received, stopping server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(h)
}
