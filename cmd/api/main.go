package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/trackdays/api/internal/api"
	"github.com/trackdays/api/internal/api/handlers"
	"github.com/trackdays/api/internal/cache"
	"github.com/trackdays/api/internal/repository"
	"github.com/trackdays/api/internal/services"
	"github.com/trackdays/api/pkg/config"
	"github.com/trackdays/api/pkg/database"
	"github.com/trackdays/api/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting TrackDays API",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// The view cache is best effort; the API serves without it.
		log.Warn("redis unreachable, view cache degraded", zap.Error(err))
	}
	views := cache.NewRedisViewCache(rdb, cfg.ViewCacheTTL)

	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		log.Warn("JWT_SECRET not set, using default (INSECURE for production)")
		jwtSecret = []byte("change-me-in-production-please")
	}

	userRepo := repository.NewUserRepository(db)
	trackRepo := repository.NewTrackRepository(db)
	carRepo := repository.NewCarModelRepository(db)
	lapRepo := repository.NewLapTimeRepository(db)

	lapService := services.NewLapTimeService(lapRepo, userRepo, carRepo, trackRepo, views)
	trackService := services.NewTrackService(trackRepo, carRepo)

	validate := validator.New(validator.WithRequiredStructEnabled())

	router := api.NewRouter(api.Dependencies{
		HMACSecret:      jwtSecret,
		AuthHandler:     handlers.NewAuthHandler(userRepo, jwtSecret, validate),
		TracksHandler:   handlers.NewTracksHandler(trackService),
		LapTimesHandler: handlers.NewLapTimesHandler(lapService, validate),
		ProfileHandler:  handlers.NewProfileHandler(userRepo, lapService),
		AdminHandler:    handlers.NewAdminHandler(lapService),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
