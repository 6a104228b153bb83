package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/powerwise-backend/internal/cache"
	"github.com/tbourn/powerwise-backend/internal/config"
	"github.com/tbourn/powerwise-backend/internal/gateway"
	httpapi "github.com/tbourn/powerwise-backend/internal/http"
	"github.com/tbourn/powerwise-backend/internal/http/handlers"
	"github.com/tbourn/powerwise-backend/internal/repo"
	"github.com/tbourn/powerwise-backend/internal/services"
	"github.com/tbourn/powerwise-backend/internal/worker"
)

// app holds the wired services shared by every command.
type app struct {
	db         *gorm.DB
	intake     *services.IntakeService
	generator  *services.RecommendationService
	reports    *services.ReportService
	listing    *services.ListingService
	payments   *services.PaymentService
	auth       *services.AccountAuthenticator // nil when sessions are disabled
	reconciler *worker.Reconciler

	closers []func() error
}

// openDB connects and migrates.
func openDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DB.Driver, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{db: db}
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}

	completer, err := newCompleter(ctx, cfg.AI)
	if err != nil {
		a.close()
		return nil, err
	}
	settings := services.DefaultGenerationSettings()
	if cfg.AI.Model != "" {
		settings.Model = cfg.AI.Model
	}
	if cfg.AI.MaxTokens > 0 {
		settings.MaxTokens = cfg.AI.MaxTokens
	}
	settings.Temperature = cfg.AI.Temperature

	plans := services.NewPlans(cfg.Payment.BasicURL, cfg.Payment.PremiumURL)
	a.generator = services.NewRecommendationService(db, completer, settings)
	a.intake = services.NewIntakeService(db, a.generator, cfg.IdempotencyTTL)
	a.reports = services.NewReportService(db, a.reportCache(ctx, cfg.Redis), plans)
	a.listing = services.NewListingService(db)
	a.payments = services.NewPaymentService(db, plans, cfg.Payment.WebhookSecret, cfg.Payment.FrontendBaseURL)
	a.reconciler = worker.NewReconciler(db, a.generator, cfg.Reconcile.Interval, cfg.Reconcile.Grace, cfg.Reconcile.Batch)

	auth, err := services.NewAccountAuthenticator(db, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, cfg.Auth.Issuer)
	switch {
	case errors.Is(err, services.ErrAuthDisabled):
		log.Warn().Msg("JWT_SECRET not set; admin routes will reject every request")
	case err != nil:
		a.close()
		return nil, err
	default:
		a.auth = auth
		if len(cfg.Auth.AdminEmails) == 0 {
			log.Warn().Msg("ADMIN_EMAILS not set; every signed-in account can list and export leads")
		}
	}
	return a, nil
}

// newCompleter picks the gateway backend. No key means generation reports a
// configuration error per request instead of failing startup.
func newCompleter(ctx context.Context, ai config.AIConfig) (gateway.Completer, error) {
	if ai.APIKey == "" {
		log.Warn().Msg("AI_API_KEY not set; recommendation generation is disabled")
		return nil, nil
	}
	switch ai.Provider {
	case "genai":
		c, err := gateway.NewGenAICompleter(ctx, gateway.GenAIOptions{APIKey: ai.APIKey, BaseURL: ai.BaseURL})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return gateway.NewHTTPCompleter(gateway.HTTPOptions{
			APIKey:  ai.APIKey,
			BaseURL: ai.BaseURL,
			Timeout: ai.Timeout,
		}), nil
	}
}

// reportCache connects to Redis when configured. Failure to connect is not
// fatal; reports are then always read from the database.
func (a *app) reportCache(ctx context.Context, rc config.RedisConfig) services.ReportCache {
	if rc.Addr == "" {
		return nil
	}
	client, err := cache.NewRedisClient(ctx, rc.Addr, rc.Password, rc.DB)
	if err != nil {
		log.Warn().Err(err).Str("addr", rc.Addr).Msg("redis unavailable; report cache disabled")
		return nil
	}
	a.closers = append(a.closers, client.Close)
	return cache.NewReportCache(client, rc.TTL)
}

// deps maps the app onto the router's dependencies.
func (a *app) deps() httpapi.Deps {
	s := handlers.Services{
		Intake:    a.intake,
		Generator: a.generator,
		Reports:   a.reports,
		Listing:   a.listing,
		Payments:  a.payments,
	}
	if a.auth != nil {
		s.Auth = a.auth
	}
	return httpapi.Deps{Services: s, HasReplay: a.intake.HasReplay}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("shutdown: close")
		}
	}
}
