package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/adapters/backend"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/adapters/handler"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/adapters/middleware"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/adapters/repository"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/config"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/ports"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/services"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/i18n"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := config.SetupLogger(cfg.LogLevel, config.LogOutput(cfg.LogFile))
	ctx := context.Background()

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to open database")
		}
		defer db.Close()
	}

	directory, err := userDirectory(cfg, db, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up user directory")
	}
	resolver, err := services.LoadResolver(ctx, directory)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load users")
	}
	logger.Info().Str("source", cfg.UsersSource).Int("users", resolver.Len()).Msg("Users loaded")

	var redisClient *redis.Client
	if cfg.RedisAddress != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("Redis not reachable at startup")
		}
	}

	translator, err := i18n.NewTranslator(cfg.DefaultLanguage)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load translations")
	}

	m := metrics.New()
	client := backend.NewClient(cfg.APIBaseURL, cfg.FetchTimeout, logger)

	dashboardService := services.NewDashboardService(client, resolver, cfg.SessionTTL, logger, m)
	earthquakeService := services.NewEarthquakeService(client, logger, m)

	limiter, err := middleware.NewRateLimiter(cfg.TriggerRateLimit, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("rate", cfg.TriggerRateLimit).Msg("Invalid trigger rate limit")
	}

	var authMiddleware *middleware.AuthMiddleware
	if cfg.JWTPublicKey != nil {
		var revoked middleware.RevocationStore
		if redisClient != nil {
			revoked = redisClient
		}
		authMiddleware = middleware.NewAuthMiddleware(cfg.JWTPublicKey, revoked, logger)
	} else {
		logger.Warn().Msg("PUBLIC_KEY_PATH not set, earthquake trigger is unauthenticated")
	}

	var pinger handler.Pinger
	if redisClient != nil {
		pinger = redisClient
	}

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(logger, m))

	handler.SetupRoutes(router, handler.Handlers{
		Dashboard:  handler.NewDashboardHandler(dashboardService, translator, logger),
		Page:       handler.NewPageHandler(dashboardService, translator, logger, authMiddleware == nil),
		Earthquake: handler.NewEarthquakeHandler(earthquakeService, translator, logger),
		Health:     handler.NewHealthHandler(cfg.Version, db, pinger, client.Breaker(), logger),
		Metrics:    m.Handler(),
		Auth:       authMiddleware,
		RateLimit:  limiter,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.CORSMiddleware(cfg.CORSAllowedOrigins)(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("backend", cfg.APIBaseURL).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	gracefulShutdown(server, dashboardService, logger)
}

func userDirectory(cfg *config.Config, db *sql.DB, logger *zerolog.Logger) (ports.UserDirectory, error) {
	switch cfg.UsersSource {
	case config.UsersSourceFile:
		return repository.NewFileRepository(cfg.UsersFile)
	case config.UsersSourcePostgres:
		return repository.NewSQLRepository(db, logger), nil
	default:
		return repository.NewEmbeddedRepository()
	}
}

func gracefulShutdown(server *http.Server, dashboards *services.DashboardService, logger *zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	logger.Info().Str("signal", sig.String()).Msg("Shutting down server...")

	dashboards.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
	}

	logger.Info().Msg("Server stopped")
}
