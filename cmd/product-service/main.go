package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/commerce-services/internal/api/http"
	"github.com/spec-kit/commerce-services/internal/api/http/handlers"
	"github.com/spec-kit/commerce-services/internal/config"
	"github.com/spec-kit/commerce-services/internal/observability"
	"github.com/spec-kit/commerce-services/internal/persistence"
	"github.com/spec-kit/commerce-services/internal/repository"
	"github.com/spec-kit/commerce-services/internal/service"
)

func main() {
	cfg, err := config.Load(config.Defaults{
		ServiceName:   "product-service",
		Port:          "8081",
		MigrationsDir: "migrations/product-service",
	})
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var rds *persistence.Redis
	if cfg.RateLimit.Enabled {
		rds = persistence.NewRedis(cfg.Redis, logger)
		defer rds.Close()
	}

	productRepo := repository.NewProductRepository(pg.PoolHandle())
	categoryRepo := repository.NewCategoryRepository(pg.PoolHandle())
	productService := service.NewProductService(productRepo, categoryRepo, logger)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, logger)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.NewErrorHandler(cfg.App.Name, logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	if cfg.RateLimit.Enabled && rds != nil {
		app.Use(httptransport.RateLimiter(rds.Client, cfg.RateLimit.RequestsPerMinute, time.Minute, logger))
	}

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rds, metrics)
	productsHandler := handlers.NewProductsHandler(productService)
	categoriesHandler := handlers.NewCategoriesHandler(categoryService)

	httptransport.RegisterProductRoutes(app, httptransport.ProductRouteConfig{
		Health:     healthHandler,
		Products:   productsHandler,
		Categories: categoriesHandler,
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
