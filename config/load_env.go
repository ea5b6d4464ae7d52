package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/subosito/gotenv"
)

// Config holds everything the summariser reads from the process environment
// at cold start.
type Config struct {
	AppEnv   string `env:"APP_ENV"   envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	AWSRegion   string `env:"AWS_REGION"   envDefault:"us-west-2"`
	AWSEndpoint string `env:"AWS_ENDPOINT"`

	BucketName     string `env:"BUCKET_NAME"`
	DefaultModelID string `env:"DEFAULT_MODEL_ID" envDefault:"anthropic.claude-3-haiku-20240307-v1:0"`

	FetchTimeout  time.Duration `env:"FETCH_TIMEOUT"  envDefault:"60s"`
	ExtractHTML   bool          `env:"EXTRACT_HTML"`
	StoreRequests bool          `env:"STORE_REQUESTS"`

	SummaryTableName string `env:"SUMMARY_TABLE_NAME"`

	ValkeyAddress  string        `env:"VALKEY_INIT_ADDRESS"`
	ValkeyPassword string        `env:"VALKEY_PASSWORD"`
	ValkeyTLS      bool          `env:"VALKEY_TLS"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"24h"`
}

func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("No .env file found, using OS environment", slog.String("file", envFile))
	}
}

// Load parses Config from the environment. LoadEnv should run first so values
// from the env file are visible.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", cfg.FetchTimeout)
	}
	return cfg, nil
}
