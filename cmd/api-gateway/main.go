package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/config"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/service"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/infra/adapters/cached"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/infra/adapters/directus"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/infra/adapters/memory"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/infra/adapters/token"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/infra/httpx"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/storefront-gateway/internal/audit"
	"github.com/jcmexdev/storefront-gateway/internal/audit/sqlite"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/cache"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/interceptors"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	telemetry.InitLogger(os.Stderr, "info")

	if err := run(); err != nil {
		slog.Error("api gateway stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	telemetry.InitLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OtelEndpoint)
	if err != nil {
		return fmt.Errorf("initialise tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	appCache, limitCounter, closeRedis := setupCache(ctx, cfg)
	defer closeRedis()

	store, provider := setupBackend(cfg)
	store = cached.NewContentStore(store, appCache, cfg.CatalogCacheTTL)

	var auditRepo audit.Repository
	if cfg.AuditDBPath != "" {
		repo, err := sqlite.Open(cfg.AuditDBPath)
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		defer repo.Close()
		auditRepo = repo
		slog.Info("checkout audit log enabled", "path", cfg.AuditDBPath)
	}

	tokens := token.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn.Duration())
	authService := service.NewAuthService(provider, tokens, token.NewCacheRevoker(appCache))

	handler := httpx.NewHandler(
		authService,
		service.NewCatalogService(store),
		service.NewBlogService(store),
		service.NewCheckoutService(store, auditRepo),
	)
	router := httpx.NewRouter(handler, authService, httpx.RouterOptions{
		CORSOrigin:        cfg.CORSOrigin,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		RateLimitCounter:  limitCounter,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("API Gateway running", "addr", httpServer.Addr, "content_store", cfg.ContentStore)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var (
		grpcServer   *grpc.Server
		healthServer *health.Server
	)
	if cfg.GRPCPort != "" {
		addr := ":" + cfg.GRPCPort
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}

		grpcServer = grpc.NewServer(
			grpc.StatsHandler(otelgrpc.NewServerHandler()),
			grpc.ChainUnaryInterceptor(
				interceptors.RequestIDUnaryInterceptor(),
				interceptors.LoggingUnaryInterceptor(),
			),
		)
		healthServer = health.NewServer()
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(grpcServer, healthServer)

		go func() {
			slog.Info("gRPC health server running", "addr", addr)
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case runErr = <-errCh:
	}

	if healthServer != nil {
		healthServer.Shutdown()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	return runErr
}

// setupCache returns the shared cache and, when Redis is configured, a rate
// limit counter shared between replicas.
func setupCache(ctx context.Context, cfg *config.Config) (cache.Cache, httprate.LimitCounter, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache(cfg.ServiceName), nil, func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("redis not reachable yet, continuing", "addr", cfg.RedisAddr, "error", err)
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	return cache.NewRedisCache(client, cfg.ServiceName), middlewares.NewRedisLimitCounter(client, cfg.ServiceName), closeFn
}

func setupBackend(cfg *config.Config) (ports.ContentStore, ports.AuthProvider) {
	if cfg.ContentStore == config.ContentStoreMemory {
		slog.Warn("using the in-memory content store and user directory")
		return memory.Seeded(), memory.NewAuthProvider()
	}

	httpClient := directus.NewHTTPClient(cfg.UpstreamTimeout)

	var serviceTokens directus.TokenSource = directus.StaticToken(cfg.DirectusToken)
	if cfg.DirectusToken == "" {
		serviceTokens = directus.NewPasswordLogin(cfg.DirectusURL, httpClient, cfg.DirectusEmail, cfg.DirectusPassword)
	}

	store := directus.NewContentStore(directus.NewClient(cfg.DirectusURL, httpClient, serviceTokens))
	return store, directus.NewAuthProvider(cfg.DirectusURL, httpClient)
}
