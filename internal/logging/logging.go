// Package logging configures the process-wide zerolog logger: level, console
// or JSON output, and an optional size-rotated file sink.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls Setup.
type Options struct {
	Level  string // debug|info|warn|error|fatal|panic
	Pretty bool   // human-readable console output
	File   string // when set, logs are also written to this rotating file

	// Stdout is the console destination; nil means os.Stdout.
	Stdout io.Writer
}

// Setup installs the global logger and returns a closer for the file sink
// (a no-op when no file is configured).
func Setup(opts Options) (io.Closer, error) {
	SetLevel(opts.Level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var console io.Writer = opts.Stdout
	if console == nil {
		console = os.Stdout
	}
	if opts.Pretty {
		console = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	out := console
	if f := strings.TrimSpace(opts.File); f != "" {
		rot := &lumberjack.Logger{
			Filename:   f,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(console, rot)
		closer = rot
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closer, nil
}

// SetLevel configures the global zerolog level from a string. Unknown values
// fall back to info.
func SetLevel(lvl string) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
