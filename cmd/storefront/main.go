package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/storefront-bff/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront-bff/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-bff/internal/backend"
	"github.com/aaravmahajanofficial/storefront-bff/internal/cache"
	"github.com/aaravmahajanofficial/storefront-bff/internal/catalog"
	"github.com/aaravmahajanofficial/storefront-bff/internal/config"
	"github.com/aaravmahajanofficial/storefront-bff/internal/health"
	"github.com/aaravmahajanofficial/storefront-bff/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-bff/internal/repositories"
	"github.com/aaravmahajanofficial/storefront-bff/internal/telemetry"
	"github.com/aaravmahajanofficial/storefront-bff/internal/workspace"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Tracing
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Otel)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	defer func() {
		if err := redisCache.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	// Database setup. Order history is optional; the storefront runs without it.
	repos, history, err := repository.New(cfg)
	if err != nil {
		slog.Warn("⚠️ Order history disabled, database unavailable", slog.String("error", err.Error()))
	} else {
		defer func() {
			if err := repos.Close(); err != nil {
				slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
			} else {
				slog.Info("✅ Database connection closed")
			}
		}()
	}

	gateway, err := backend.NewGateway(cfg.Backend, nil)
	if err != nil {
		slog.Error("❌ Invalid backend configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	validate := validator.New()

	tree := catalog.NewTree(
		gateway.NewClient(),
		cache.NewRecord[models.CategoryTree](redisCache, cache.CategoryTreeKey, cfg.Cache.DefaultTTL),
		logger.With(slog.String("component", "category_tree")),
	)

	opts := workspace.Options{
		Gateway:   gateway,
		Cache:     redisCache,
		Tree:      tree,
		Limiter:   repository.NewRateLimitRepo(redisClient, cfg.RateConfig),
		Validate:  validate,
		Storage:   cfg.Storage,
		Workspace: cfg.Workspace,
		Logger:    logger,
	}

	if history != nil {
		opts.History = history
	}

	registry := workspace.NewRegistry(opts)
	go registry.Run(ctx)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{Gateway: gateway})
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	clientSession := middleware.NewClientSession(cfg.Security)

	var api http.Handler = handlers.NewRouter(registry, tree, validate)
	api = clientSession.Handle(api)

	rootMux := http.NewServeMux()
	rootMux.Handle("GET /health", healthHandler.Handler())
	rootMux.Handle("GET /metrics", metrics.Handler())
	rootMux.Handle("/api/", api)

	// Middleware chaining
	var handler http.Handler = rootMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, cfg.Otel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Stops the workspace sweeper
	stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
	}
}
