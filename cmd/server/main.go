package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dodo-tasks/backend/internal/auth"
	"github.com/dodo-tasks/backend/internal/config"
	"github.com/dodo-tasks/backend/internal/ratelimit"
	"github.com/dodo-tasks/backend/internal/respond"
	"github.com/dodo-tasks/backend/internal/store"
	"github.com/dodo-tasks/backend/internal/todo"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fatal(slog.Default(), "load config", err)
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	if err := cfg.Validate(); err != nil {
		fatal(logger, "invalid config", err)
	}
	ctx := context.Background()

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := store.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		fatal(logger, "mongo connect", err)
	}
	defer mongoClient.Disconnect(context.Background())
	mongoDB := mongoClient.Database(cfg.MongoDB)
	if err := store.EnsureIndexes(ctx, mongoDB); err != nil {
		fatal(logger, "mongo indexes", err)
	}
	taskStore := store.NewTaskStore(mongoDB)
	logger.Info("mongo connected", "database", cfg.MongoDB)

	// ── Credentials ──────────────────────────────────────────
	var users auth.UserStore = store.NewUserStore(mongoDB)
	if cfg.CredentialBackend == config.BackendPostgres {
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			fatal(logger, "postgres connect", err)
		}
		defer pgPool.Close()
		pgStore := store.NewPostgresStore(pgPool)
		if err := pgStore.Migrate(ctx); err != nil {
			fatal(logger, "postgres migrate", err)
		}
		users = pgStore
	}
	logger.Info("credential backend ready", "backend", cfg.CredentialBackend)

	// ── Rate limiting ────────────────────────────────────────
	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			fatal(logger, "redis connect", err)
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow)
		logger.Info("rate limiter using redis")
	}

	// ── Auth ─────────────────────────────────────────────────
	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		fatal(logger, "token issuer", err)
	}
	authSvc := auth.NewService(users, auth.NewPasswordHasher(cfg.BcryptCost), tokens)

	// ── Handlers ─────────────────────────────────────────────
	out := respond.New(cfg.Development(), logger)
	rt := routes{
		logger:      logger,
		out:         out,
		tokens:      tokens,
		limiter:     limiter,
		auth:        auth.NewHandler(authSvc, out),
		todos:       todo.NewHandler(taskStore, out),
		corsOrigins: cfg.CORSAllowedOrigins,
		trustProxy:  cfg.TrustProxy,
	}

	// ── MinIO (optional) ─────────────────────────────────────
	if cfg.ExportsEnabled() {
		minioStore, err := store.NewMinioStore(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			fatal(logger, "minio connect", err)
		}
		rt.exports = todo.NewExporter(taskStore, minioStore, out)
		logger.Info("task exports enabled", "bucket", cfg.MinioBucket)
	}

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(rt),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("shutdown", "error", err.Error())
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err.Error())
	os.Exit(1)
}
