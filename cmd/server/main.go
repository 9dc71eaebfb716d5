// Command server runs the meme generation API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/memeforge/memeforge/internal/admin"
	"github.com/memeforge/memeforge/internal/auth"
	"github.com/memeforge/memeforge/internal/billing"
	"github.com/memeforge/memeforge/internal/caption"
	"github.com/memeforge/memeforge/internal/entitlement"
	"github.com/memeforge/memeforge/internal/httpapi"
	"github.com/memeforge/memeforge/internal/media"
	"github.com/memeforge/memeforge/internal/meme"
	"github.com/memeforge/memeforge/internal/storage/postgres"
	"github.com/memeforge/memeforge/internal/subscription"
	"github.com/memeforge/memeforge/pkg/config"
	"github.com/memeforge/memeforge/pkg/httpserver"
	"github.com/memeforge/memeforge/pkg/logger"
	"github.com/memeforge/memeforge/pkg/pg"
	"github.com/memeforge/memeforge/pkg/ratelimit"
	"github.com/memeforge/memeforge/pkg/redis"
)

type appConfig struct {
	Logger      logger.Config
	PG          pg.Config
	Redis       redis.Config
	HTTP        httpserver.Config
	Entitlement entitlement.Config
	Auth        auth.Config
	Gemini      caption.GeminiConfig
	Paddle      billing.PaddleConfig
	Billing     billing.Config
	Media       media.Config
	RateLimit   ratelimit.Config

	PlansPath string `env:"PLANS_PATH" envDefault:"plans.yaml"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(cfg.Logger, os.Stdout)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg appConfig, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return err
	}

	catalog, err := subscription.LoadCatalog(cfg.PlansPath)
	if err != nil {
		return err
	}

	// Stores.
	usageStore := postgres.NewUsageStore(pool)
	subStore := postgres.NewSubscriptionStore(pool)
	memeStore := postgres.NewMemeStore(pool)
	userStore := postgres.NewUserStore(pool)

	// Rate limiting shares windows across replicas when Redis is
	// configured, otherwise each replica enforces its own.
	healthChecks := []func(context.Context) error{pg.Healthcheck(pool)}
	var limiterStore ratelimit.Store
	if cfg.Redis.Enabled() {
		redisClient, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()

		limiterStore, err = ratelimit.NewRedisStore(redisClient, "")
		if err != nil {
			return err
		}
		healthChecks = append(healthChecks, redis.Healthcheck(redisClient))
	} else {
		memStore := ratelimit.NewMemoryStore()
		defer memStore.Close()
		limiterStore = memStore
		log.Warn("redis not configured, rate limits are per-replica")
	}

	limiter, err := ratelimit.NewSlidingWindow(limiterStore, cfg.RateLimit)
	if err != nil {
		return err
	}

	// Services.
	authSvc, err := auth.NewService(userStore, cfg.Auth)
	if err != nil {
		return err
	}

	entitlementSvc := entitlement.NewService(usageStore, subStore, cfg.Entitlement, log)
	memeSvc := meme.NewService(memeStore, log)

	captionGen, err := caption.NewGeminiGenerator(ctx, cfg.Gemini)
	if err != nil {
		return err
	}

	paddle, err := billing.NewPaddleProvider(cfg.Paddle)
	if err != nil {
		return err
	}
	billingSvc := billing.NewService(paddle, subStore, catalog, cfg.Billing, log)

	mediaStore, err := media.New(ctx, cfg.Media, log)
	if err != nil {
		return err
	}

	adminSvc := admin.NewService(userStore, usageStore, subStore, memeStore, log)

	api := httpapi.New(httpapi.Deps{
		Auth:         authSvc,
		Entitlements: entitlementSvc,
		Captions:     captionGen,
		Memes:        memeSvc,
		Media:        mediaStore,
		Billing:      billingSvc,
		Admin:        adminSvc,
		Subs:         subStore,
		Limiter:      limiter,
		Log:          log,
		HealthChecks: healthChecks,
	})

	srv := httpserver.New(cfg.HTTP, log)
	return srv.Run(ctx, api.Router())
}
