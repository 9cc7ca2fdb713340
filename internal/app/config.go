package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/aiclub-backend/internal/data/db"
	"github.com/yungbote/aiclub-backend/internal/observability"
	"github.com/yungbote/aiclub-backend/internal/platform/envutil"
	"github.com/yungbote/aiclub-backend/internal/platform/openai"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	LogMode string
	Port    string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DB db.Config

	RedisAddr string

	AllowedOrigins []string
	TrustedProxies []string

	ObjectStorageMode   string
	StorageEmulatorHost string
	ManualBucket        string
	ManualCredentials   string

	// BadgesFile replaces the embedded badge table when set.
	BadgesFile string

	OpenAI openai.Config
	Otel   observability.OtelConfig
}

func LoadConfig() Config {
	return Config{
		LogMode: envutil.String("LOG_MODE", "development"),
		Port:    envutil.String("PORT", "8080"),

		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 24*time.Hour),

		DB: db.Config{
			Driver:     envutil.String("DB_DRIVER", db.DriverPostgres),
			Host:       envutil.String("POSTGRES_HOST", "localhost"),
			Port:       envutil.String("POSTGRES_PORT", "5432"),
			User:       envutil.String("POSTGRES_USER", "postgres"),
			Password:   envutil.String("POSTGRES_PASSWORD", ""),
			Name:       envutil.String("POSTGRES_NAME", "aiclub"),
			SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath: envutil.String("SQLITE_PATH", "aiclub.db"),
		},

		RedisAddr: envutil.String("REDIS_ADDR", ""),

		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),
		TrustedProxies: envutil.List("TRUSTED_PROXIES", nil),

		ObjectStorageMode:   envutil.String("OBJECT_STORAGE_MODE", ""),
		StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", ""),
		ManualBucket:        envutil.String("MANUAL_GCS_BUCKET_NAME", ""),
		ManualCredentials:   envutil.String("MANUAL_GCS_CREDENTIALS", ""),

		BadgesFile: envutil.String("BADGES_FILE", ""),

		OpenAI: openai.Config{
			APIKey:      envutil.String("OPENAI_API_KEY", ""),
			BaseURL:     envutil.String("OPENAI_BASE_URL", ""),
			Model:       envutil.String("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:     envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 60*time.Second),
			Temperature: float64(envutil.Int("OPENAI_TEMPERATURE_PCT", 70)) / 100,
		},

		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "aiclub-backend"),
			Environment: envutil.String("OTEL_ENVIRONMENT", envutil.String("LOG_MODE", "development")),
			Version:     envutil.String("OTEL_SERVICE_VERSION", ""),
			SampleRatio: float64(envutil.Int("OTEL_SAMPLE_PERCENT", 100)) / 100,
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		},
	}
}

func (c Config) IsProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.LogMode)) {
	case "prod", "production":
		return true
	}
	return false
}

// Validate rejects configurations the server cannot safely start with.
func (c Config) Validate() error {
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token ttls must be positive")
	}
	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be shorter than REFRESH_TOKEN_TTL")
	}
	switch strings.ToLower(c.DB.Driver) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if !c.IsProduction() {
		return nil
	}
	if c.JWTSecretKey == "" || c.JWTSecretKey == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET_KEY must be set in production")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY must be set in production")
	}
	if c.ManualBucket == "" {
		return fmt.Errorf("MANUAL_GCS_BUCKET_NAME must be set in production")
	}
	if strings.ToLower(c.DB.Driver) == db.DriverSQLite {
		return fmt.Errorf("DB_DRIVER=sqlite is not allowed in production")
	}
	return nil
}
