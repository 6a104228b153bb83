// Package worker runs background maintenance: regenerating recommendations
// for clients whose synchronous generation failed, and purging expired
// idempotency records.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/powerwise-backend/internal/domain"
	"github.com/tbourn/powerwise-backend/internal/repo"
	"github.com/tbourn/powerwise-backend/internal/services"
)

var reconciledTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "powerwise_reconcile_clients_total",
		Help: "Orphaned clients processed by the reconciler, by result.",
	},
	[]string{"result"},
)

func init() { prometheus.MustRegister(reconciledTotal) }

// Reconciler finds clients older than Grace that have no recommendation and
// generates one for each, at most Batch per pass.
type Reconciler struct {
	DB        *gorm.DB
	Generator services.Generator
	Interval  time.Duration
	Grace     time.Duration
	Batch     int
	Now       func() time.Time
}

// Result summarizes one pass.
type Result struct {
	Scanned   int
	Generated int
	Failed    int
	Purged    int64
}

// NewReconciler constructs a Reconciler.
func NewReconciler(db *gorm.DB, gen services.Generator, interval, grace time.Duration, batch int) *Reconciler {
	if batch <= 0 {
		batch = 10
	}
	return &Reconciler{
		DB:        db,
		Generator: gen,
		Interval:  interval,
		Grace:     grace,
		Batch:     batch,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run performs a pass immediately and then every Interval until ctx is done.
// A zero Interval disables the loop and Run just waits for ctx.
func (r *Reconciler) Run(ctx context.Context) error {
	if r.Interval <= 0 {
		log.Info().Msg("reconcile: disabled")
		<-ctx.Done()
		return nil
	}
	log.Info().Dur("interval", r.Interval).Dur("grace", r.Grace).Int("batch", r.Batch).Msg("reconcile: started")

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		if _, err := r.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("reconcile: pass failed")
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("reconcile: stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single pass. Cancellation is checked between clients.
func (r *Reconciler) RunOnce(ctx context.Context) (Result, error) {
	var res Result
	now := r.Now()

	purged, err := repo.PurgeExpiredIdempotency(ctx, r.DB, now)
	if err != nil {
		log.Warn().Err(err).Msg("reconcile: purging idempotency records failed")
	}
	res.Purged = purged

	orphans, err := repo.ListOrphanClients(ctx, r.DB, now.Add(-r.Grace), r.Batch)
	if err != nil {
		return res, err
	}
	res.Scanned = len(orphans)

	for _, c := range orphans {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, gerr := r.Generator.Generate(ctx, inputFor(c)); gerr != nil {
			res.Failed++
			reconciledTotal.WithLabelValues("failed").Inc()
			log.Warn().Err(gerr).
				Str("client_id", c.ID).
				Str("kind", string(services.KindOf(gerr))).
				Msg("reconcile: generation failed")
			continue
		}
		res.Generated++
		reconciledTotal.WithLabelValues("generated").Inc()
	}

	if res.Scanned > 0 || res.Purged > 0 {
		log.Info().
			Int("scanned", res.Scanned).
			Int("generated", res.Generated).
			Int("failed", res.Failed).
			Int64("purged", res.Purged).
			Msg("reconcile: pass complete")
	}
	return res, nil
}

func inputFor(c domain.Client) services.GenerateInput {
	return services.GenerateInput{
		ClientID:        c.ID,
		FullName:        c.FullName,
		State:           c.State,
		LGA:             c.LGA,
		EstimatedLoadKW: c.EstimatedLoadKW,
		DailyUsageHours: c.DailyUsageHours,
		PropertyType:    c.PropertyType,
	}
}
