package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/tbourn/powerwise-backend/internal/http"
	"github.com/tbourn/powerwise-backend/internal/observability"
	"github.com/tbourn/powerwise-backend/internal/services"
)

const shutdownGrace = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background reconciler",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := observability.Init(ctx, cfg.OTEL, version)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(sctx); err != nil {
				log.Warn().Err(err).Msg("otel shutdown")
			}
		}()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close()

		gin.SetMode(cfg.GinMode)
		r := gin.New()
		httpapi.RegisterRoutes(r, a.deps(), cfg)

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    cfg.MaxHeaderBytes,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info().Str("addr", srv.Addr).Str("base_path", cfg.APIBasePath).Msg("http: listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http: %w", err)
			}
			return nil
		})
		g.Go(func() error { return a.reconciler.Run(gctx) })
		g.Go(func() error {
			<-gctx.Done()
			log.Info().Msg("http: shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return srv.Shutdown(sctx)
		})
		return g.Wait()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(*cobra.Command, []string) error {
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		log.Info().Str("driver", cfg.DB.Driver).Msg("migrate: done")
		return nil
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one orphan-client reconciliation pass and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.reconciler.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d generated=%d failed=%d purged=%d\n",
			res.Scanned, res.Generated, res.Failed, res.Purged)
		return nil
	},
}

var exportFlags struct {
	out    string
	search string
	sort   string
	order  string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the recommendations spreadsheet to a file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()

		name, body, err := a.listing.Export(cmd.Context(), services.Query{
			Search: exportFlags.search,
			SortBy: exportFlags.sort,
			Desc:   !strings.EqualFold(exportFlags.order, "asc"),
		})
		if err != nil {
			return err
		}
		out := exportFlags.out
		if out == "" {
			out = name
		} else if fi, err := os.Stat(out); err == nil && fi.IsDir() {
			out = filepath.Join(out, name)
		}
		if err := os.WriteFile(out, body, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportFlags.out, "out", "o", "", "output file or directory (default: dated file name in the working directory)")
	f.StringVar(&exportFlags.search, "search", "", "substring filter over name, email, location and solution")
	f.StringVar(&exportFlags.sort, "sort", "", "sort column")
	f.StringVar(&exportFlags.order, "order", "desc", "asc or desc")
}
