package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/bookswap/bookswap/internal/api/http"
	"github.com/bookswap/bookswap/internal/application/alert"
	"github.com/bookswap/bookswap/internal/application/audit"
	"github.com/bookswap/bookswap/internal/application/auth"
	"github.com/bookswap/bookswap/internal/application/book"
	"github.com/bookswap/bookswap/internal/application/notification"
	"github.com/bookswap/bookswap/internal/application/rating"
	"github.com/bookswap/bookswap/internal/application/swap"
	"github.com/bookswap/bookswap/internal/application/user"
	"github.com/bookswap/bookswap/internal/config"
	"github.com/bookswap/bookswap/internal/infrastructure/postgres"
	"github.com/bookswap/bookswap/internal/infrastructure/sse"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, "internal/migrations"); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// repositories
	userRepo := postgres.NewUserRepository(pool)
	bookRepo := postgres.NewBookRepository(pool)
	swapRepo := postgres.NewSwapRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)

	// infrastructure
	sseHub := sse.NewHub()

	// services
	auditSvc := audit.NewService(auditRepo, logger)
	notificationSvc := notification.NewService(notificationRepo, sseHub, logger)
	alertSvc := alert.NewService(alertRepo, notificationSvc, logger)
	bookSvc := book.NewService(bookRepo, alertSvc, logger)
	userSvc := user.NewService(userRepo, logger)
	authSvc := auth.NewService(userRepo, []byte(cfg.JWTSecret), cfg.TokenTTL, logger)
	ratingSvc := rating.NewService(swapRepo, logger)
	swapSvc := swap.NewService(swapRepo, bookRepo, userRepo, notificationSvc, auditSvc, logger)

	// API server
	apiServer := httpapi.NewServer(swapSvc, bookSvc, userSvc, authSvc, ratingSvc, alertSvc, notificationSvc, sseHub)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
	sseHub.Stop()
}
