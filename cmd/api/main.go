package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/product-service/internal/api/http"
	"github.com/spec-kit/product-service/internal/api/http/handlers"
	"github.com/spec-kit/product-service/internal/auth"
	"github.com/spec-kit/product-service/internal/cache"
	"github.com/spec-kit/product-service/internal/config"
	"github.com/spec-kit/product-service/internal/events"
	"github.com/spec-kit/product-service/internal/observability"
	"github.com/spec-kit/product-service/internal/persistence"
	"github.com/spec-kit/product-service/internal/repository"
	"github.com/spec-kit/product-service/internal/service"
	"github.com/spec-kit/product-service/internal/worker"
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

	pool := pg.PoolHandle()
	principalRepo := repository.NewPrincipalRepository(pool)
	productRepo := repository.NewProductRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, redis, cfg.Audit, logger)

	productCache := cache.NewProductCache(redis, cfg.Cache.ProductTTLSeconds)

	tokenService := service.NewTokenService(*cfg, principalRepo, dispatcher)
	productService := service.NewProductService(productRepo, productCache, dispatcher)
	authMiddleware := auth.NewMiddleware(tokenService.TokenManager(), principalRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics)
	tokensHandler := handlers.NewTokensHandler(tokenService)
	productsHandler := handlers.NewProductsHandler(productService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Tokens:         tokensHandler,
		Products:       productsHandler,
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
