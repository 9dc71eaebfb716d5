package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/memeforge/memeforge/internal/admin"
	"github.com/memeforge/memeforge/internal/auth"
	"github.com/memeforge/memeforge/internal/billing"
	"github.com/memeforge/memeforge/internal/caption"
	"github.com/memeforge/memeforge/internal/entitlement"
	"github.com/memeforge/memeforge/internal/media"
	"github.com/memeforge/memeforge/internal/meme"
	"github.com/memeforge/memeforge/pkg/httpserver"
	"github.com/memeforge/memeforge/pkg/ratelimit"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Auth         auth.Service
	Entitlements entitlement.Service
	Captions     caption.Generator
	Memes        meme.Service
	Media        media.Storage
	Billing      billing.Service
	Admin        admin.Service
	Subs         entitlement.SubscriptionSource
	Limiter      ratelimit.Limiter
	Log          *slog.Logger

	// HealthChecks back the readiness probe; empty means liveness only.
	HealthChecks []func(context.Context) error
}

// API owns the route handlers.
type API struct {
	auth         auth.Service
	entitlements entitlement.Service
	captions     caption.Generator
	memes        meme.Service
	media        media.Storage
	billing      billing.Service
	admin        admin.Service
	subs         entitlement.SubscriptionSource
	limiter      ratelimit.Limiter
	log          *slog.Logger
	healthChecks []func(context.Context) error
}

// New creates the API. Panics if a required dependency is nil.
func New(deps Deps) *API {
	if deps.Auth == nil {
		panic("httpapi.New: auth service is required")
	}
	if deps.Entitlements == nil {
		panic("httpapi.New: entitlement service is required")
	}
	if deps.Captions == nil {
		panic("httpapi.New: caption generator is required")
	}
	if deps.Memes == nil {
		panic("httpapi.New: meme service is required")
	}
	if deps.Media == nil {
		panic("httpapi.New: media storage is required")
	}
	if deps.Billing == nil {
		panic("httpapi.New: billing service is required")
	}
	if deps.Admin == nil {
		panic("httpapi.New: admin service is required")
	}
	if deps.Subs == nil {
		panic("httpapi.New: subscription source is required")
	}
	if deps.Limiter == nil {
		panic("httpapi.New: rate limiter is required")
	}
	if deps.Log == nil {
		panic("httpapi.New: logger is required")
	}

	return &API{
		auth:         deps.Auth,
		entitlements: deps.Entitlements,
		captions:     deps.Captions,
		memes:        deps.Memes,
		media:        deps.Media,
		billing:      deps.Billing,
		admin:        deps.Admin,
		subs:         deps.Subs,
		limiter:      deps.Limiter,
		log:          deps.Log,
		healthChecks: deps.HealthChecks,
	}
}

// Router assembles the chi route tree.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", httpserver.HealthCheckHandler(a.log, a.healthChecks...))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", a.handleRegister)
		r.Post("/login", a.handleLogin)
	})

	r.Post("/webhooks/billing", a.handleBillingWebhook)

	r.Route("/api", func(r chi.Router) {
		r.Use(a.requireAuth)

		r.Get("/usage", a.handleUsage)
		r.With(ratelimit.Middleware(a.limiter, rateLimitKey)).
			Post("/generate", a.handleGenerate)
		r.Post("/memes", a.handleSaveMeme)
		r.Get("/memes", a.handleListMemes)
		r.Post("/checkout", a.handleCheckout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(a.requireAuth, a.requireAdmin)

		r.Get("/users", a.handleAdminListUsers)
		r.Get("/usage", a.handleAdminListUsage)
		r.Get("/subscriptions", a.handleAdminListSubscriptions)
		r.Get("/memes", a.handleAdminListMemes)
		r.Delete("/memes/{id}", a.handleAdminDeleteMeme)
	})

	return r
}
