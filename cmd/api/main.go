package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"typoteka/internal/config"
	hhttp "typoteka/internal/handler/http"
	"typoteka/internal/handler/http/middleware"
	"typoteka/internal/infra/adapter/persistence/memory"
	pgRepo "typoteka/internal/infra/adapter/persistence/postgres"
	"typoteka/internal/infra/db"
	flashstore "typoteka/internal/infra/flash"
	"typoteka/internal/observability/logging"
	"typoteka/internal/observability/metrics"
	"typoteka/internal/observability/tracing"
	"typoteka/internal/repository"
	"typoteka/internal/resilience/circuitbreaker"
	"typoteka/internal/resilience/retry"
	"typoteka/internal/service/auth"
	artUC "typoteka/internal/usecase/article"
	commentUC "typoteka/internal/usecase/comment"
	"typoteka/internal/usecase/guard"
	searchUC "typoteka/internal/usecase/search"
	userUC "typoteka/internal/usecase/user"
)

const (
	shutdownTimeout      = 10 * time.Second
	readHeaderTimeout    = 10 * time.Second
	dbStatsInterval      = 15 * time.Second
	limiterCleanupPeriod = time.Minute
)

// @title           Typoteka API
// @version         1.0
// @description     Blog content API: articles, categories, comments, search and accounts.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT from POST /user/login, sent as "Bearer {token}".

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := initLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing := tracing.Init(cfg.Tracing)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracing", slog.Any("error", err))
		}
	}()

	store, err := openStorage(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to open storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.close(logger)

	flash, closeFlash, err := openFlash(ctx, cfg)
	if err != nil {
		logger.Error("failed to open flash store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeFlash()

	handler, limiter := setupServer(logger, cfg, store, flash)

	go limiter.RunCleanup(ctx, limiterCleanupPeriod)
	if store.db != nil {
		go reportDBStats(ctx, store.db)
	}

	runServer(ctx, cancel, logger, cfg, handler)
}

// initLogger builds the JSON logger at the configured level and makes it the
// process default.
func initLogger(cfg config.Config) *slog.Logger {
	logger := logging.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	return logger
}

// storage is the set of repositories chosen by the storage driver.
type storage struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
	comments   repository.CommentRepository
	users      repository.UserRepository

	// db and breaker are nil for the memory driver.
	db      *sql.DB
	breaker *circuitbreaker.DBCircuitBreaker
}

func (s *storage) close(logger *slog.Logger) {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		logger.Error("failed to close database", slog.Any("error", err))
	}
}

// openStorage connects to PostgreSQL and migrates it, or builds the
// in-memory store.
func openStorage(ctx context.Context, logger *slog.Logger, cfg config.Config) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		if cfg.Storage.Seed {
			n := store.SeedCategories(memory.DefaultCategories...)
			logger.Info("memory storage seeded", slog.Int("categories", n))
		}
		logger.Warn("using in-memory storage, data is lost on restart")
		return &storage{
			articles:   store.Articles(),
			categories: store.Categories(),
			comments:   store.Comments(),
			users:      store.Users(),
		}, nil

	case config.DriverPostgres:
		database, err := db.Open(ctx, cfg.Storage.DatabaseURL, cfg.Storage.Pool)
		if err != nil {
			return nil, err
		}
		if err := db.MigrateUp(database); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		breaker := circuitbreaker.NewDBCircuitBreaker(database)
		return &storage{
			articles:   pgRepo.NewArticleRepo(breaker),
			categories: pgRepo.NewCategoryRepo(breaker),
			comments:   pgRepo.NewCommentRepo(breaker),
			users:      pgRepo.NewUserRepo(breaker),
			db:         database,
			breaker:    breaker,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// openFlash returns the Redis flash store when REDIS_URL is set and the
// in-memory one otherwise.
func openFlash(ctx context.Context, cfg config.Config) (flashstore.Store, func(), error) {
	if cfg.RedisURL == "" {
		return flashstore.NewMemoryStore(cfg.FlashTTL), func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	err = retry.WithBackoff(ctx, "ping redis", retry.StartupConfig(), func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return flashstore.NewRedisStore(client, cfg.FlashTTL), func() { _ = client.Close() }, nil
}

// setupServer wires the use cases to the router.
func setupServer(logger *slog.Logger, cfg config.Config, store *storage, flash flashstore.Store) (http.Handler, *middleware.RateLimiter) {
	pipeline := &guard.Pipeline{
		Articles:   store.articles,
		Categories: store.categories,
		Comments:   store.comments,
		Users:      store.users,
		Rules:      cfg.Validation,
	}
	tokens := auth.NewService(store.users, auth.Config{
		Secret: []byte(cfg.Token.Secret),
		TTL:    cfg.Token.TTL,
		Issuer: cfg.Token.Issuer,
	})

	// Validate already rejected malformed entries.
	proxies, _ := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	limiter := middleware.NewRateLimiter("login", cfg.LoginRateLimit, proxies)

	health := &hhttp.HealthHandler{Version: cfg.Version}
	if store.db != nil {
		health.DB = store.db
		health.Breaker = store.breaker
	}
	if p, ok := flash.(hhttp.Pinger); ok {
		health.Flash = p
	}

	handler := hhttp.NewRouter(hhttp.Services{
		Articles: &artUC.Service{
			Articles:   store.articles,
			Categories: store.categories,
			Guard:      pipeline,
			Pagination: cfg.Pagination,
		},
		Comments: &commentUC.Service{Comments: store.comments, Guard: pipeline},
		Search:   &searchUC.Service{Articles: store.articles, Timeout: cfg.SearchTimeout},
		Users:    &userUC.Service{Users: store.users, Tokens: tokens, Guard: pipeline},
		Tokens:   tokens,
		Flash:    flash,
	}, hhttp.RouterConfig{
		Logger:         logger,
		Pagination:     cfg.Pagination,
		CORS:           cfg.CORS,
		LoginLimiter:   limiter,
		RequestTimeout: cfg.RequestTimeout,
		Health:         health,
		Version:        cfg.Version,
	})

	logger.Info("routes configured",
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("redis_flash", cfg.RedisURL != ""),
		slog.Int("cors_origins", len(cfg.CORS.AllowedOrigins)),
		slog.Int("trusted_proxies", len(cfg.TrustedProxies)))
	return handler, limiter
}

// reportDBStats publishes connection pool gauges until ctx is cancelled.
func reportDBStats(ctx context.Context, database *sql.DB) {
	ticker := time.NewTicker(dbStatsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := database.Stats()
			metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
		}
	}
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, cfg config.Config, handler http.Handler) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
