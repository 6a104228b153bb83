// Package config provides application configuration loaded from environment
// variables (optionally seeded from a .env file) with defaults and validation.
// It centralizes server timeouts, logging, database, AI gateway, payment,
// session, rate limiting, reconciliation and observability settings.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DBConfig selects the GORM dialect and its connection string.
type DBConfig struct {
	Driver string // sqlite|postgres
	DSN    string // file path for sqlite, URL/keyword DSN for postgres
}

// AIConfig configures the language-model gateway.
type AIConfig struct {
	Provider    string        // gateway|genai
	APIKey      string        // AI_API_KEY; empty means generation is disabled
	BaseURL     string        // OpenAI-compatible base URL (without /chat/completions)
	Model       string        // model identifier
	Temperature float64       // sampling temperature
	MaxTokens   int           // completion cap
	Timeout     time.Duration // transport timeout for one call
}

// RedisConfig configures the optional report cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// PaymentConfig carries the hosted-checkout links and webhook secret.
type PaymentConfig struct {
	WebhookSecret   string // HMAC-SHA512 key for x-paystack-signature
	BasicURL        string
	PremiumURL      string
	FrontendBaseURL string // where /payments/return forwards to
}

// AuthConfig configures session issuance.
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
	Issuer     string
	// AdminEmails may use the recommendation listing and export. Empty
	// admits every signed-in account.
	AdminEmails []string
}

// ReconcileConfig drives the orphan-client sweep.
type ReconcileConfig struct {
	Interval time.Duration // 0 disables the background worker
	Grace    time.Duration // minimum client age before it counts as orphaned
	Batch    int           // clients per sweep
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // must cover the gateway timeout
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	MaxBodyBytes      int64         // request body cap
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	LogFile        string // optional rotating file sink
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	DB        DBConfig
	AI        AIConfig
	Redis     RedisConfig
	Payment   PaymentConfig
	Auth      AuthConfig
	Reconcile ReconcileConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Per-caller limit on the AI generation routes, in requests per minute.
	// 0 disables this limiter; the global one still applies.
	GenRatePerMin float64
	GenRateBurst  int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is replayable

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 150*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		MaxBodyBytes:      int64(getint("MAX_BODY_BYTES", 1<<20)),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		LogFile:        getenv("LOG_FILE", ""),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		DB: DBConfig{
			Driver: strings.ToLower(getenv("DB_DRIVER", "sqlite")),
			DSN:    getenv("DB_DSN", getenv("DB_PATH", "powerwise.db")),
		},
		AI: AIConfig{
			Provider:    strings.ToLower(getenv("AI_PROVIDER", "gateway")),
			APIKey:      getenv("AI_API_KEY", ""),
			BaseURL:     strings.TrimRight(getenv("AI_BASE_URL", "https://ai.gateway.lovable.dev/v1"), "/"),
			Model:       getenv("AI_MODEL", "google/gemini-3-flash-preview"),
			Temperature: getfloat("AI_TEMPERATURE", 0.7),
			MaxTokens:   getint("AI_MAX_TOKENS", 2000),
			Timeout:     getdur("AI_TIMEOUT", 120*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getint("REDIS_DB", 0),
			TTL:      getdur("REPORT_CACHE_TTL", time.Hour),
		},
		Payment: PaymentConfig{
			WebhookSecret:   getenv("PAYMENT_WEBHOOK_SECRET", ""),
			BasicURL:        getenv("PAYMENT_BASIC_URL", "https://paystack.shop/pay/8-g5f3dfh3"),
			PremiumURL:      getenv("PAYMENT_PREMIUM_URL", "https://paystack.shop/pay/83bgioxwhe"),
			FrontendBaseURL: strings.TrimRight(getenv("FRONTEND_BASE_URL", "http://localhost:5173"), "/"),
		},
		Auth: AuthConfig{
			JWTSecret:  getenv("JWT_SECRET", ""),
			SessionTTL: getdur("SESSION_TTL", 24*time.Hour),
			Issuer:     getenv("JWT_ISSUER", "powerwise"),

			AdminEmails: splitCSV(strings.ToLower(getenv("ADMIN_EMAILS", ""))),
		},
		Reconcile: ReconcileConfig{
			Interval: getdur("RECONCILE_INTERVAL", 0),
			Grace:    getdur("RECONCILE_GRACE", 10*time.Minute),
			Batch:    getint("RECONCILE_BATCH", 10),
		},

		// Rate limiting
		RateRPS:       getfloat("RATE_RPS", 5.0),
		RateBurst:     getint("RATE_BURST", 10),
		GenRatePerMin: getfloat("GEN_RATE_PER_MIN", 6),
		GenRateBurst:  getint("GEN_RATE_BURST", 3),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "powerwise-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DB.Driver == "postgresql" {
		cfg.DB.Driver = "postgres"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.MaxBodyBytes <= 0 {
		return cfg, errors.New("MAX_BODY_BYTES must be > 0")
	}
	switch cfg.DB.Driver {
	case "sqlite", "postgres":
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if strings.TrimSpace(cfg.DB.DSN) == "" {
		return cfg, errors.New("DB_DSN must not be empty")
	}
	switch cfg.AI.Provider {
	case "gateway", "genai":
	default:
		return cfg, errors.New("AI_PROVIDER must be one of: gateway, genai")
	}
	if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 2 {
		return cfg, errors.New("AI_TEMPERATURE must be in [0,2]")
	}
	if cfg.AI.MaxTokens < 1 {
		return cfg, errors.New("AI_MAX_TOKENS must be >= 1")
	}
	if cfg.AI.Timeout <= 0 {
		return cfg, errors.New("AI_TIMEOUT must be > 0")
	}
	if cfg.Auth.SessionTTL <= 0 {
		return cfg, errors.New("SESSION_TTL must be > 0")
	}
	if cfg.Reconcile.Interval < 0 || cfg.Reconcile.Grace < 0 {
		return cfg, errors.New("RECONCILE_INTERVAL and RECONCILE_GRACE must be >= 0")
	}
	if cfg.Reconcile.Batch < 1 {
		return cfg, errors.New("RECONCILE_BATCH must be >= 1")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.GenRatePerMin < 0 {
		return cfg, errors.New("GEN_RATE_PER_MIN must be >= 0")
	}
	if cfg.GenRateBurst < 1 {
		return cfg, errors.New("GEN_RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
