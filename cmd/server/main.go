package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oggyb/eventswipe/internal/app"
	"github.com/oggyb/eventswipe/internal/auth"
	"github.com/oggyb/eventswipe/internal/cache"
	"github.com/oggyb/eventswipe/internal/config"
	"github.com/oggyb/eventswipe/internal/db"
	"github.com/oggyb/eventswipe/internal/geocode"
	"github.com/oggyb/eventswipe/internal/logger"
	"github.com/oggyb/eventswipe/internal/metrics"
	"github.com/oggyb/eventswipe/internal/report"
	"github.com/oggyb/eventswipe/internal/server"
	"github.com/oggyb/eventswipe/internal/service/chat"
	"github.com/oggyb/eventswipe/internal/service/explore"
	"github.com/oggyb/eventswipe/internal/service/inbox"
	"github.com/oggyb/eventswipe/internal/service/profile"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}
	defer redisCache.Close()

	// Inject shared dependencies into app context
	appCtx := app.New(cfg, database, redisCache, log)
	appCtx.Mailer = report.NewSMTPMailer(cfg)
	if cfg.Geocoder.Token != "" {
		client := &http.Client{Timeout: cfg.Geocoder.Timeout}
		appCtx.Geocoder = geocode.NewCached(geocode.NewLocationIQ(cfg, client), redisCache, cfg.Geocoder.CacheTTL)
	} else {
		log.Warn("LOCATIONIQ_TOKEN not set, geocoding disabled")
	}

	registrars := []server.Registrar{
		explore.NewRegistrar(appCtx),
		inbox.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
		profile.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database, time.Now().UnixNano(), time.Now()); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	go func() {
		log.Info("serving metrics", "addr", cfg.Metrics.Addr)
		if err := metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
			log.Error("metrics server failed", "err", err)
		}
	}()

	addr := cfg.GRPC.Host + ":" + cfg.GRPC.Port
	log.Info("starting gRPC server", "addr", addr)

	authn := auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err := server.StartGRPCServer(ctx, cfg, authn, log, registrars...); err != nil {
		log.Error("failed to start gRPC server", "err", err)
	}
}
