// Package main runs the camp kitchen-shift HTTP API.
//
// @title Camp Kitchen Shifts API
// @version 1.0
// @description Weekly kitchen-shift registration for camp members.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"campregistration/config"
	_ "campregistration/docs"
	"campregistration/internal/adapters/auth"
	"campregistration/internal/adapters/queue"
	httpdelivery "campregistration/internal/delivery/http"
	"campregistration/internal/delivery/http/controllers"
	"campregistration/internal/repository/postgres"
	"campregistration/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := config.NewLogger("server")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	applied, err := postgres.Migrate(ctx, db)
	if err != nil {
		logger.Error("migrate", "err", err)
		os.Exit(1)
	}
	logger.Info("migrations applied", "files", applied)

	notifier := services.NewLogNotifier(logger)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable; confirmations will fail to queue until it recovers", "addr", cfg.Redis.Addr, "err", err)
		}
		notifier = services.NewQueueNotifier(queue.NewQueue(rdb, logger))
	}

	// Repositories
	shiftRepo := postgres.NewShiftRegistrationRepository(db, cfg.DBConnectTimeout)
	memberRepo := postgres.NewMemberRepository(db)
	adminRepo := postgres.NewAdminRepository(db)

	// Auth
	jwt := auth.NewJWT(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(0)

	// Services
	memberService := services.NewMemberService(memberRepo)
	allocator := services.NewShiftAllocator(shiftRepo, memberService, notifier, logger)
	authService := services.NewAdminAuthService(adminRepo, hasher, jwt, cfg.JWTExpiry)

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Shift:  controllers.NewShiftController(logger, allocator),
		Member: controllers.NewMemberController(logger, memberService),
		Auth:   controllers.NewAuthController(logger, authService),
		Health: controllers.NewHealthController(logger, db, cfg.DBConnectTimeout),
	}, httpdelivery.RouterConfig{
		Verifier:           jwt,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	logger.Info("server stopped")
}
