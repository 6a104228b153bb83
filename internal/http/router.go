// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// sessions, CORS, security headers, idempotency, and rate limiting.
package httpapi

import (
	"context"
	"net/http"
	"path"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/powerwise-backend/internal/config"
	"github.com/tbourn/powerwise-backend/internal/http/handlers"
	"github.com/tbourn/powerwise-backend/internal/http/middleware"
)

// Deps are the application services the routes dispatch to.
type Deps struct {
	Services handlers.Services
	// HasReplay reports whether an assessment Idempotency-Key has a live
	// stored outcome. Nil disables replay detection in middleware.
	HasReplay func(ctx context.Context, key string, now time.Time) bool
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id, then the generation
//     endpoint's permissive CORS headers and bare {error} rejections
//  3. RequestLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Session: attach a verified session, if any (rate-limit key needs it)
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per account/IP, bypass on replay)
//  10. CORS and security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	base := cfg.APIBasePath
	if base == "" {
		base = "/"
	}

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// The generation endpoint answers every response, rejections included,
	// with permissive CORS headers and a bare {error} body.
	generate := path.Join(base, "/make_recommendation")
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == generate {
			handlers.SetGenerationHeaders(c)
		}
		c.Next()
	})

	// 3) Structured logging with redaction
	r.Use(middleware.RequestLogger(middleware.LogOptions{
		MaskHeaders: []string{"X-API-Key"},
		SkipPaths:   []string{"/health", "/metrics"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(cfg.MaxBodyBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Sessions
	var verifier middleware.SessionVerifier
	if deps.Services.Auth != nil {
		verifier = deps.Services.Auth
	}
	r.Use(middleware.Session(verifier))

	// 8) Idempotency validation (before rate limiting). Only assessment
	// submissions store outcomes.
	assessments := path.Join(base, "/assessments")
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, route, key string, now time.Time) (bool, error) {
			if route != assessments || deps.HasReplay == nil {
				return false, nil
			}
			return deps.HasReplay(ctx, key, now), nil
		},
	))

	// 9) Token-bucket rate limiter per account/IP
	rl := middleware.NewRateLimiter("global", cfg.RateRPS, cfg.RateBurst, middleware.KeyBySessionOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture. The generation endpoint already has its headers and
	// is skipped here.
	corsMW := corsMiddleware(cfg.CORS.AllowedOrigins)
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == generate {
			c.Next()
			return
		}
		corsMW(c)
	})

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(deps.Services)

	// Generation routes spend AI credits and get a much smaller budget.
	// A zero rate turns this limiter off.
	var genLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.GenRatePerMin > 0 {
		genLimit = middleware.NewRateLimiter("generation", cfg.GenRatePerMin/60, cfg.GenRateBurst, middleware.KeyBySessionOrIP()).Handler()
	}

	// Public API
	api := groupWithPrefix(r, base)
	{
		// Intake and generation
		api.POST("/assessments", genLimit, h.SubmitAssessment)
		api.OPTIONS("/make_recommendation", handlers.GenerationCORS)
		api.POST("/make_recommendation", handlers.GenerationCORS, genLimit, h.MakeRecommendation)

		// Reports
		api.GET("/recommendations/:id", middleware.NoStore(), h.GetReport)

		// Admin
		admin := api.Group("/recommendations",
			middleware.RequireSession(), middleware.RequireAdmin(cfg.Auth.AdminEmails), middleware.NoStore(), gzip.Gzip(gzip.DefaultCompression))
		admin.GET("", h.ListRecommendations)
		admin.GET("/export", h.ExportRecommendations)

		// Payments
		api.POST("/payments/checkout", h.Checkout)
		api.GET("/payments/return", h.PaymentReturn)
		api.POST("/webhooks/payment", h.PaymentWebhook)

		// Sessions
		auth := api.Group("/auth", middleware.NoStore())
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
	}
}

// corsMiddleware allows every origin when none are configured, otherwise
// only the allowlist.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Content-Disposition", "ETag", handlers.HeaderReplayed},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
		mw := cors.New(cc)
		// Force ACAO: * even for requests without an Origin header.
		return func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			mw(c)
		}
	}
	cc.AllowOrigins = origins
	return cors.New(cc)
}

// limitBody caps the request body size at maxBytes (1 MiB when unset) using
// http.MaxBytesReader. Requests exceeding the cap will cause downstream body
// reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
