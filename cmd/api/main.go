package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/order-service/internal/api/http"
	"github.com/spec-kit/order-service/internal/api/http/handlers"
	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/cache"
	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/observability"
	"github.com/spec-kit/order-service/internal/persistence"
	"github.com/spec-kit/order-service/internal/repository"
	"github.com/spec-kit/order-service/internal/service"
	"github.com/spec-kit/order-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The signing key has a process lifetime: loaded from config when set,
	// generated exactly once at startup otherwise. It is never regenerated,
	// and every component that issues or parses tokens shares this one
	// TokenManager.
	signingKey := cfg.Auth.JWTSecret
	if signingKey == "" {
		signingKey, err = auth.GenerateKey()
		if err != nil {
			logger.Fatal("failed to generate signing key", zap.Error(err))
		}
		logger.Warn("AUTH_JWT_SECRET not set; generated an ephemeral signing key, tokens will not survive a restart")
	}
	tokenManager := auth.NewTokenManager(signingKey, cfg.Auth.AccessTokenTTL())

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var queryCache *cache.QueryCache
	if cfg.Cache.Enabled {
		queryCache = cache.New(redis.Client, cfg.Cache.TTL(), logger)
	} else {
		queryCache = cache.New(nil, cfg.Cache.TTL(), logger)
	}

	// Revocations live in redis when it is reachable so logout survives a
	// restart; otherwise fall back to the in-memory store swept by the
	// janitor.
	var revocations auth.RevocationStore
	var memoryRevocations *auth.MemoryRevocationStore
	if err := redis.Ping(ctx); err == nil {
		revocations = auth.NewRedisRevocationStore(redis.Client)
	} else {
		logger.Warn("redis unreachable; revocations held in process memory")
		memoryRevocations = auth.NewMemoryRevocationStore()
		revocations = memoryRevocations
	}

	dispatcher := events.NewInMemoryDispatcher()
	_ = worker.NewAuditWorker(dispatcher, logger)

	if memoryRevocations != nil {
		janitor := worker.NewRevocationJanitor(memoryRevocations, cfg.Auth.JanitorInterval(), logger)
		go janitor.Run(ctx)
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		Users:       userRepo,
		Revocations: revocations,
		Tokens:      tokenManager,
		Dispatcher:  dispatcher,
		Cache:       queryCache,
	}, logger)
	userService := service.NewUserService(userRepo, queryCache, logger)
	orderService := service.NewOrderService(orderRepo, queryCache, dispatcher, logger)

	authMiddleware := auth.NewMiddleware(tokenManager, userRepo, revocations, cfg.Auth.HeaderName, cfg.Auth.TokenPrefix, logger)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService),
		Orders:         handlers.NewOrdersHandler(orderService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
