package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/medilink/medilink/application/usecase"
	"github.com/medilink/medilink/infrastructure/config"
	medihttp "github.com/medilink/medilink/infrastructure/http"
	"github.com/medilink/medilink/infrastructure/http/handler"
	"github.com/medilink/medilink/infrastructure/http/middleware"
	"github.com/medilink/medilink/infrastructure/http/sse"
	"github.com/medilink/medilink/infrastructure/persistence/postgres"
	"github.com/medilink/medilink/infrastructure/service/jwt"
	"github.com/medilink/medilink/infrastructure/service/logger"
	"github.com/medilink/medilink/infrastructure/service/password"
	"github.com/medilink/medilink/infrastructure/service/ratelimit"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logCfg := logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "medilink-session",
	}
	logrusLogger := logger.NewLogrus(logCfg)
	structuredLogger := logger.New(logCfg)
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	rateLimitService, err := ratelimit.New(ratelimit.Config{
		Enabled:       cfg.RateLimitEnabled,
		RedisURL:      cfg.RedisURL,
		Attempts:      cfg.RateLimitAttempts,
		Window:        cfg.RateLimitWindow,
		BlockDuration: cfg.RateLimitBlock,
	}, logrusLogger)
	if err != nil {
		log.Fatalf("Failed to initialize rate limit service: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)

	tokenService, err := jwt.NewJWTService(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	bcryptService := password.NewBcryptService(10)

	authUseCase := usecase.NewAuthUseCase(
		userRepo,
		tokenService,
		bcryptService,
		bcryptService,
		rateLimitService,
		structuredLogger,
		cfg.RateLimitAttempts,
		cfg.RateLimitWindow,
		cfg.RateLimitBlock,
	)

	registry := sse.NewRegistry(cfg.SSEBufferSize)
	dispatcher := sse.NewDispatcher(registry, structuredLogger)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, userRepo, structuredLogger)
	authHandler := handler.NewAuthHandler(authUseCase)
	notificationHandler := handler.NewNotificationHandler(dispatcher)
	sseHandler := sse.NewHandler(registry, structuredLogger, cfg.SSEHeartbeat)

	server := medihttp.NewServer(medihttp.ServerConfig{
		Addr:        cfg.ServerHost + ":" + cfg.ServerPort,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}, authHandler, notificationHandler, sseHandler, authMiddleware)

	go func() {
		structuredLogger.Info(ctx, "HTTP server listening", map[string]interface{}{
			"addr": cfg.ServerHost + ":" + cfg.ServerPort,
		})
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	structuredLogger.Info(ctx, "Shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Graceful shutdown failed", err, nil)
	}
}
