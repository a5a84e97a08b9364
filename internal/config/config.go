package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSSLMode          string
	MigrateOnStart     bool
	MigrationsPath     string
	RedisURL           string
	CORSAllowedOrigins []string
	BodyLimitBytes     int64

	BillTTL             time.Duration
	IdempotencyTTL      time.Duration
	CatalogCacheTTL     time.Duration
	AnalyticsCacheTTL   time.Duration
	AnalyticsProfitBase string
	BillMemoryCapacity  int

	RateLimitWindow time.Duration
	RateLimitMax    int

	ShopName       string
	ShopInstagram  string
	CurrencySymbol string
	ShopTimezone   string

	KafkaBrokers []string
	KafkaTopic   string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "5000"),
		DatabaseURL:        strings.TrimSpace(k.String("DATABASE_URL")),
		DBHost:             valueOrDefault(k.String("DB_HOST"), "localhost"),
		DBPort:             valueOrDefault(k.String("DB_PORT"), "5432"),
		DBUser:             valueOrDefault(k.String("DB_USER"), "postgres"),
		DBPassword:         valueOrDefault(k.String("DB_PASSWORD"), "postgres"),
		DBName:             valueOrDefault(k.String("DB_NAME"), "bills"),
		DBSSLMode:          valueOrDefault(k.String("DB_SSLMODE"), "disable"),
		MigrateOnStart:     parseBoolDefault(k.String("MIGRATE_ON_START"), true),
		MigrationsPath:     valueOrDefault(k.String("MIGRATIONS_PATH"), "file://db/migrations"),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		BodyLimitBytes:     int64(parseInt(k.String("BODY_LIMIT_BYTES"), 1<<20)),

		BillTTL:             parseDuration(k.String("BILL_TTL"), "30m"),
		IdempotencyTTL:      parseDuration(k.String("IDEMPOTENCY_TTL"), "10m"),
		CatalogCacheTTL:     parseDuration(k.String("CATALOG_CACHE_TTL"), "5m"),
		AnalyticsCacheTTL:   parseDuration(k.String("ANALYTICS_CACHE_TTL"), "1m"),
		AnalyticsProfitBase: strings.ToLower(valueOrDefault(k.String("ANALYTICS_PROFIT_BASIS"), "current")),
		BillMemoryCapacity:  parseInt(k.String("BILL_MEMORY_CAPACITY"), 1024),

		RateLimitWindow: parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		RateLimitMax:    parseInt(k.String("RATE_LIMIT_MAX"), 60),

		ShopName:       valueOrDefault(k.String("SHOP_NAME"), "URBAN CLYNE"),
		ShopInstagram:  valueOrDefault(k.String("SHOP_INSTAGRAM"), "urban_clyne"),
		CurrencySymbol: valueOrDefault(k.String("CURRENCY_SYMBOL"), "₹"),
		ShopTimezone:   valueOrDefault(k.String("SHOP_TIMEZONE"), "UTC"),

		KafkaBrokers: splitAndTrim(k.String("KAFKA_BROKERS")),
		KafkaTopic:   valueOrDefault(k.String("KAFKA_TOPIC"), "billing.events"),

		MinioEndpoint:  strings.TrimSpace(k.String("MINIO_ENDPOINT")),
		MinioAccessKey: k.String("MINIO_ACCESS_KEY"),
		MinioSecretKey: k.String("MINIO_SECRET_KEY"),
		MinioBucket:    valueOrDefault(k.String("MINIO_BUCKET"), "bills"),
		MinioUseSSL:    parseBoolDefault(k.String("MINIO_USE_SSL"), false),
	}

	switch cfg.AnalyticsProfitBase {
	case "current", "at_sale":
	default:
		return nil, fmt.Errorf("ANALYTICS_PROFIT_BASIS must be current or at_sale, got %q", cfg.AnalyticsProfitBase)
	}
	// the zone name is sent to Postgres, which only knows IANA names
	if strings.EqualFold(cfg.ShopTimezone, "Local") {
		return nil, fmt.Errorf("SHOP_TIMEZONE must be an IANA zone name such as Asia/Kolkata, got %q", cfg.ShopTimezone)
	}
	if _, err := time.LoadLocation(cfg.ShopTimezone); err != nil {
		return nil, fmt.Errorf("SHOP_TIMEZONE: %w", err)
	}
	if _, err := strconv.Atoi(cfg.DBPort); err != nil {
		return nil, fmt.Errorf("DB_PORT must be numeric: %w", err)
	}

	return cfg, nil
}

// DSN returns the Postgres connection string. DATABASE_URL wins over the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "5000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func parseBoolDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
