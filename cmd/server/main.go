package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/HammerMeetNail/pitchside/internal/config"
	"github.com/HammerMeetNail/pitchside/internal/database"
	"github.com/HammerMeetNail/pitchside/internal/handlers"
	"github.com/HammerMeetNail/pitchside/internal/logging"
	"github.com/HammerMeetNail/pitchside/internal/middleware"
	"github.com/HammerMeetNail/pitchside/internal/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Server.Debug {
		logger.SetLevel(logging.LevelDebug)
		logging.SetDefaultLevel(logging.LevelDebug)
		logger.Debug("Debug logging enabled", map[string]interface{}{"env": cfg.Server.Environment})
	}

	logger.Info("Starting pitchside server...")

	logger.Info("Connecting to PostgreSQL", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})
	db, err := database.NewPostgresDB(cfg.Database.DSN(), resolvePoolSettings(logger, os.LookupEnv))
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	logger.Info("Running database migrations...")
	migrator, err := database.NewMigrator(cfg.Database.DSN(), "migrations")
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("running migrations: %w", err)
	}
	if version, dirty, err := migrator.Version(); err == nil {
		logger.Info("Migrations completed", map[string]interface{}{"version": version, "dirty": dirty})
	}
	_ = migrator.Close()

	logger.Info("Connecting to Redis", map[string]interface{}{
		"addr": cfg.Redis.Addr(),
	})
	redisDB, err := database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()
	logger.Info("Connected to Redis")

	// Initialize services
	dbAdapter := services.NewPoolAdapter(db.Pool)
	redisAdapter := services.NewRedisAdapter(redisDB.Client)

	profiles := services.NewPostgresProfileStore()
	matches := services.NewPostgresMatchDirectory(dbAdapter)

	aggregator := services.NewAggregator(dbAdapter, profiles)
	aggregator.SetCache(services.NewAggregateCache(redisAdapter, services.DefaultAggregateCacheTTL))

	recomputeQueue := services.NewRecomputeQueue(aggregator, resolveRecomputeTimeout(cfg, logger, os.LookupEnv))
	recomputeCtx, recomputeCancel := context.WithCancel(context.Background())
	recomputeQueue.SetAsyncContext(recomputeCtx)

	friendService := services.NewFriendService(dbAdapter)
	friendService.SetNotifier(services.NewLogNotifier(logger))
	blockService := services.NewBlockService(dbAdapter)
	ratingService := services.NewRatingService(dbAdapter, matches, profiles, recomputeQueue)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, redisDB)
	friendHandler := handlers.NewFriendHandler(friendService)
	blockHandler := handlers.NewBlockHandler(blockService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	profileHandler := handlers.NewProfileHandler(aggregator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	requestLogger := middleware.NewRequestLogger(logger)
	writeLimit := resolveWriteRateLimit(cfg, logger, os.LookupEnv)
	writeLimiter := middleware.NewRateLimiter(redisDB.Client, writeLimit, cfg.RateLimit.Window, "ratelimit:writes:", middleware.UserKey, cfg.RateLimit.FailOpen)

	requireUser := authMiddleware.RequireUser
	requireWrite := func(h http.Handler) http.Handler {
		return requireUser(writeLimiter.Middleware(h))
	}

	mux := http.NewServeMux()

	// Health endpoints (no auth, no rate limit)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	// Friend endpoints
	mux.Handle("GET /api/friends", requireUser(http.HandlerFunc(friendHandler.List)))
	mux.Handle("GET /api/friends/requests", requireUser(http.HandlerFunc(friendHandler.ListRequests)))
	mux.Handle("GET /api/friends/status/{userId}", requireUser(http.HandlerFunc(friendHandler.Status)))
	mux.Handle("POST /api/friends/requests", requireWrite(http.HandlerFunc(friendHandler.SendRequest)))
	mux.Handle("PUT /api/friends/requests/{id}/accept", requireWrite(http.HandlerFunc(friendHandler.AcceptRequest)))
	mux.Handle("PUT /api/friends/requests/{id}/decline", requireWrite(http.HandlerFunc(friendHandler.DeclineRequest)))
	mux.Handle("DELETE /api/friends/{id}", requireWrite(http.HandlerFunc(friendHandler.Remove)))

	// Block endpoints
	mux.Handle("POST /api/blocks", requireWrite(http.HandlerFunc(blockHandler.Block)))
	mux.Handle("DELETE /api/blocks/{userId}", requireWrite(http.HandlerFunc(blockHandler.Unblock)))
	mux.Handle("GET /api/blocks", requireUser(http.HandlerFunc(blockHandler.List)))
	mux.Handle("GET /api/blocks/status/{userId}", requireUser(http.HandlerFunc(blockHandler.Status)))

	// Rating endpoints
	mux.Handle("POST /api/matches/{matchId}/ratings", requireWrite(http.HandlerFunc(ratingHandler.Submit)))
	mux.Handle("GET /api/matches/{matchId}/players-to-rate", requireUser(http.HandlerFunc(ratingHandler.PlayersToRate)))
	mux.Handle("GET /api/profiles/{userId}/aggregate", requireUser(http.HandlerFunc(profileHandler.Aggregate)))

	// Build middleware chain (outermost last)
	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = requestLogger.Apply(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		// Drain in-flight recomputations before the pool closes.
		recomputeQueue.Close()
		recomputeCancel()
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr": addr,
	})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		recomputeCancel()
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}

func resolveWriteRateLimit(cfg *config.Config, logger *logging.Logger, lookupEnv func(string) (string, bool)) int64 {
	limit := cfg.RateLimit.WritesPerWindow
	if limit <= 0 {
		limit = 60
	}
	if cfg.Server.Environment == "development" {
		if _, ok := lookupEnv("RATE_LIMIT_WRITES"); !ok {
			limit *= 10
			logger.Info("Using development write rate limit", map[string]interface{}{"limit": limit})
		}
	}
	return limit
}

func resolveRecomputeTimeout(cfg *config.Config, logger *logging.Logger, lookupEnv func(string) (string, bool)) time.Duration {
	timeout := cfg.Ratings.RecomputeTimeout
	if timeout <= 0 {
		timeout = services.DefaultRecomputeTimeout
	}
	if value, ok := lookupEnv("RATINGS_RECOMPUTE_TIMEOUT"); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err != nil || parsed <= 0 {
			logger.Warn("Invalid RATINGS_RECOMPUTE_TIMEOUT; using default", map[string]interface{}{
				"value":   value,
				"default": timeout.String(),
			})
		}
	}
	return timeout
}

func resolvePoolSettings(logger *logging.Logger, lookupEnv func(string) (string, bool)) database.PoolSettings {
	settings := database.DefaultPoolSettings
	if value, ok := lookupEnv("DB_MAX_CONNS"); ok && value != "" {
		parsed, err := strconv.ParseInt(value, 10, 32)
		if err != nil || parsed <= 0 {
			logger.Warn("Invalid DB_MAX_CONNS; using default", map[string]interface{}{
				"value":   value,
				"default": settings.MaxConns,
			})
		} else {
			settings.MaxConns = int32(parsed)
		}
	}
	if settings.MinConns > settings.MaxConns {
		settings.MinConns = settings.MaxConns
	}
	return settings
}
