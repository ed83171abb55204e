package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"golang.org/x/sync/errgroup"

	"github.com/oggyb/desire-match/internal/app"
	"github.com/oggyb/desire-match/internal/cache"
	"github.com/oggyb/desire-match/internal/config"
	"github.com/oggyb/desire-match/internal/db"
	"github.com/oggyb/desire-match/internal/logger"
	"github.com/oggyb/desire-match/internal/server"
	"github.com/oggyb/desire-match/internal/service/auth"
	"github.com/oggyb/desire-match/internal/service/matching"
	"github.com/oggyb/desire-match/internal/service/messaging"
	"github.com/oggyb/desire-match/internal/service/notification"
	"github.com/oggyb/desire-match/internal/service/profile"
	"github.com/oggyb/desire-match/internal/storage"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.New()

	var sentryErr error
	if cfg.Sentry.DSN != "" {
		sentryErr = sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.App.ENV,
			EnableTracing:    cfg.Sentry.TracesSampleRate > 0,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
		})
		if sentryErr != nil {
			cfg.Sentry.DSN = ""
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()
	if sentryErr != nil {
		log.Error("sentry init failed", "err", sentryErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ops := server.NewOpsServer()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return err
	}
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return err
	}

	photos, err := storage.NewPhotoStore(ctx, cfg)
	if err != nil {
		log.Error("failed to init photo storage", "err", err)
		return err
	}
	if !photos.Enabled() {
		log.Warn("S3 bucket not configured, photo uploads disabled")
	}

	appCtx := app.New(database, redisCache, log, cfg)
	appCtx.Photos = photos

	if cfg.IsDevelopment() {
		if err := db.SeedMinimalTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	e := server.NewHTTPServer(cfg, log,
		auth.NewRegistrar(appCtx),
		matching.NewRegistrar(appCtx),
		messaging.NewRegistrar(appCtx),
		notification.NewRegistrar(appCtx),
		profile.NewRegistrar(appCtx),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting HTTP server", "addr", cfg.HTTP.Host+":"+cfg.HTTP.Port)
		return server.StartHTTPServer(gctx, e, cfg, shutdownGrace)
	})
	g.Go(func() error {
		log.Info("starting ops gRPC server", "addr", cfg.GRPC.Host+":"+cfg.GRPC.Port)
		return ops.StartGRPCServer(cfg)
	})
	g.Go(func() error {
		<-gctx.Done()
		ops.Stop()
		return nil
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := sqlDB.PingContext(pingCtx); err != nil {
		log.Warn("database ping failed, ops health stays NOT_SERVING", "err", err)
	} else {
		ops.SetServing(true)
	}
	cancel()

	err = g.Wait()
	log.Info("server stopped")
	return err
}
