package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/backend-billing/internal/analytics"
	"github.com/noah-isme/backend-billing/internal/billing"
	"github.com/noah-isme/backend-billing/internal/catalog"
	"github.com/noah-isme/backend-billing/internal/common"
	"github.com/noah-isme/backend-billing/internal/config"
	dbgen "github.com/noah-isme/backend-billing/internal/db/gen"
	"github.com/noah-isme/backend-billing/internal/document"
	"github.com/noah-isme/backend-billing/internal/events"
	"github.com/noah-isme/backend-billing/internal/health"
	"github.com/noah-isme/backend-billing/internal/obs"
	"github.com/noah-isme/backend-billing/internal/ratelimit"
	"github.com/noah-isme/backend-billing/internal/security"
	"github.com/noah-isme/backend-billing/internal/web"
)

// NewRouter builds the billing services on top of deps and mounts them on a chi router.
func NewRouter(cfg *config.Config, deps Dependencies) (http.Handler, error) {
	loc, err := time.LoadLocation(cfg.ShopTimezone)
	if err != nil {
		return nil, fmt.Errorf("shop timezone: %w", err)
	}
	validate := deps.Validator
	if validate == nil {
		validate = validator.New()
	}
	bus := deps.Bus
	if bus == nil {
		bus = &events.Bus{}
	}
	views := deps.Views
	if views == nil {
		views, err = web.New(cfg.ShopName)
		if err != nil {
			return nil, err
		}
	}
	queries := dbgen.New(deps.DB)
	staleAnalytics := analytics.Invalidator{R: deps.Redis}
	layout := document.Layout{
		ShopName:       cfg.ShopName,
		Instagram:      cfg.ShopInstagram,
		CurrencySymbol: cfg.CurrencySymbol,
	}

	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{
		Queries:   queries,
		Cache:     catalog.NewCache(deps.Redis, cfg.CatalogCacheTTL),
		Analytics: staleAnalytics,
		Events:    bus,
		Validator: validate,
		Logger:    deps.Logger.With().Str("component", "catalog").Logger(),
	})
	if err != nil {
		return nil, err
	}
	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Service: catalogSvc, Views: views})

	var store billing.Store
	if deps.Redis != nil {
		store = billing.NewRedisStore(deps.Redis, cfg.BillTTL)
	} else {
		store = billing.NewMemoryStore(cfg.BillMemoryCapacity, cfg.BillTTL)
	}
	billingSvc, err := billing.NewService(billing.ServiceConfig{
		Ledger:    &billing.PGLedger{Pool: deps.DB, Q: queries},
		Store:     store,
		Events:    bus,
		Archiver:  deps.Archiver,
		Analytics: staleAnalytics,
		Layout:    layout,
		Validator: validate,
		Logger:    deps.Logger.With().Str("component", "billing").Logger(),
		Location:  loc,
	})
	if err != nil {
		return nil, err
	}
	billingHandler := &billing.Handler{Svc: billingSvc, Views: views}

	analyticsSvc := &analytics.Service{
		Q:           queries,
		R:           deps.Redis,
		TTL:         cfg.AnalyticsCacheTTL,
		ProfitBasis: cfg.AnalyticsProfitBase,
		Location:    loc,
	}
	analyticsHandler := &analytics.Handler{Svc: analyticsSvc, Views: views}

	healthHandler := health.Handler{
		Checker:      readinessChecker{db: deps.DB, redis: deps.Redis},
		DBTimeout:    500 * time.Millisecond,
		RedisTimeout: 300 * time.Millisecond,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if deps.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if deps.Metrics != nil {
		r.Use(obs.HTTPObs{Metrics: deps.Metrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: deps.Logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Idempotency-Key"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(security.Headers{HSTSMaxAge: 31536000}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)

	if deps.Metrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	idem := common.Idem{R: deps.Redis, TTL: cfg.IdempotencyTTL}
	limiter := ratelimit.SlidingWindow{Client: deps.Redis, Prefix: "rl:"}
	policy := ratelimit.Policy{Window: cfg.RateLimitWindow, Max: cfg.RateLimitMax}
	guard := func(scope string) func(http.Handler) http.Handler {
		return ratelimit.Guard{Limiter: limiter, Policy: policy, Scope: scope, Logger: deps.Logger}.Middleware
	}

	r.Get("/", catalogHandler.Index)
	r.Get("/analytics", analyticsHandler.Dashboard)
	r.Get("/download-pdf", billingHandler.DownloadPDF)
	r.Get("/share-whatsapp/{mobile}", billingHandler.ShareWhatsApp)
	r.With(guard("generate-bill"), idem.Middleware).Post("/generate-bill", billingHandler.GenerateBill)
	r.With(guard("add-product"), idem.Middleware).Post("/add_product", catalogHandler.AddProduct)
	r.With(guard("update-product"), idem.Middleware).Post("/update_product", catalogHandler.UpdateProduct)

	return r, nil
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}
