// Command powerwise runs the PowerWise advisory API and its maintenance tasks.
//
//	powerwise serve       # HTTP API plus the orphan-client reconciler
//	powerwise migrate     # create or update tables, then exit
//	powerwise reconcile   # one reconciliation pass, then exit
//	powerwise export      # write the admin spreadsheet to a file
//
// @title                      PowerWise API
// @version                    1.0
// @description                Power-system recommendations for Nigerian homes and businesses.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	_ "github.com/tbourn/powerwise-backend/docs"
	"github.com/tbourn/powerwise-backend/internal/config"
	"github.com/tbourn/powerwise-backend/internal/logging"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfg       config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "powerwise",
	Short:         "PowerWise advisory backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		cfg = c

		closer, err := logging.Setup(logging.Options{
			Level:  cfg.LogLevel,
			Pretty: cfg.LogPretty,
			File:   cfg.LogFile,
		})
		if err != nil {
			return fmt.Errorf("logging: %w", err)
		}
		logCloser = closer
		log.Debug().Str("command", cmd.Name()).Str("version", version).Msg("starting")
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, reconcileCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("powerwise")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
