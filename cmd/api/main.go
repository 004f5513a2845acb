package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/kursadbilgin/alert-dispatcher/internal/config"
	"github.com/kursadbilgin/alert-dispatcher/internal/handler"
	"github.com/kursadbilgin/alert-dispatcher/internal/infra/postgresql"
	"github.com/kursadbilgin/alert-dispatcher/internal/infra/postgresql/migrations"
	infraredis "github.com/kursadbilgin/alert-dispatcher/internal/infra/redis"
	"github.com/kursadbilgin/alert-dispatcher/internal/observability"
	"github.com/kursadbilgin/alert-dispatcher/internal/provider"
	"github.com/kursadbilgin/alert-dispatcher/internal/render"
	"github.com/kursadbilgin/alert-dispatcher/internal/repository"
	"github.com/kursadbilgin/alert-dispatcher/internal/service"
	"github.com/kursadbilgin/alert-dispatcher/internal/transport"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	renderer, err := newRenderer(cfg, logger)
	if err != nil {
		logger.Fatal("template loading failed", zap.Error(err))
	}

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	metrics := observability.NewMetrics()

	notifier, err := provider.NewDingTalkNotifier(renderer, logger,
		provider.WithBaseURL(cfg.DingTalkBaseURL),
		provider.WithTimeout(cfg.WebhookTimeout()),
		provider.WithMetrics(metrics),
	)
	if err != nil {
		logger.Fatal("dingtalk notifier initialization failed", zap.Error(err))
	}

	var destinationRepo repository.DestinationRepository = repository.NewGormDestinationRepo(db)

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infraredis.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis initialization failed", zap.Error(err))
		}
		defer rdb.Close()

		destinationRepo, err = infraredis.NewCachedDestinationRepo(destinationRepo, rdb, cfg.DestinationCacheTTL(), logger)
		if err != nil {
			logger.Fatal("destination cache initialization failed", zap.Error(err))
		}
		logger.Info("destination cache enabled", zap.Duration("ttl", cfg.DestinationCacheTTL()))
	}

	destinationService, err := service.NewDestinationService(destinationRepo, logger)
	if err != nil {
		logger.Fatal("destination service initialization failed", zap.Error(err))
	}
	alertService, err := service.NewAlertService(destinationRepo, notifier, logger)
	if err != nil {
		logger.Fatal("alert service initialization failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               "alert-dispatcher",
		DisableStartupMessage: true,
		ErrorHandler:          transport.ErrorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(metrics.HTTPMiddleware())

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	handler.RegisterHealthRoutes(app, sqlDB, rdb)
	if err := handler.RegisterDestinationRoutes(app, destinationService); err != nil {
		logger.Fatal("destination routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterAlertRoutes(app, alertService); err != nil {
		logger.Fatal("alert routes registration failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("alert-dispatcher api started", zap.Int("port", cfg.APIPort))
		return app.Listen(fmt.Sprintf(":%d", cfg.APIPort))
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("alert-dispatcher api stopped with error", zap.Error(err))
		return
	}
	logger.Info("alert-dispatcher api stopped")
}

func newRenderer(cfg *config.Config, logger *zap.Logger) (*render.Renderer, error) {
	if cfg.TemplateDir != "" {
		logger.Info("loading alert templates from directory", zap.String("dir", cfg.TemplateDir))
		return render.NewFromDir(cfg.TemplateDir, logger)
	}
	return render.NewDefault(logger)
}
