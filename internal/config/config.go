package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

const EnvPrefix = "WORKOUT_"

var ErrInvalidConfig = errors.New("invalid config")

// Config is one environment's section of the TOML file. Every field can be
// overridden by a WORKOUT_ prefixed env var.
type Config struct {
	Environment string `toml:"environment" env:"ENVIRONMENT, overwrite"`
	Host        string `toml:"host" env:"HOST, overwrite"`
	Port        int    `toml:"port" env:"PORT, overwrite"`
	// logging
	LogLevel      string `toml:"log_level" env:"LOG_LEVEL, overwrite"`
	LogsPath      string `toml:"logs_path" env:"LOGS_PATH, overwrite"`
	LogToStdout   bool   `toml:"log_to_stdout" env:"LOG_TO_STDOUT, overwrite"`
	LogFormatJSON bool   `toml:"log_format_json" env:"LOG_FORMAT_JSON, overwrite"`
	SentryEnabled bool   `toml:"sentry_enabled" env:"SENTRY_ENABLED, overwrite"`
	// storage
	StorageBackend     string `toml:"storage_backend" env:"STORAGE_BACKEND, overwrite"`
	DataDir            string `toml:"data_dir" env:"DATA_DIR, overwrite"`
	CatalogPath        string `toml:"catalog_path" env:"CATALOG_PATH, overwrite"`
	CacheEnabled       bool   `toml:"cache_enabled" env:"CACHE_ENABLED, overwrite"`
	CacheSizeBytes     int    `toml:"cache_size_bytes" env:"CACHE_SIZE_BYTES, overwrite"`
	CacheExpireSeconds int    `toml:"cache_expire_seconds" env:"CACHE_EXPIRE_SECONDS, overwrite"`
	// redis
	RedisHost   string `toml:"redis_host" env:"REDIS_HOST, overwrite"`
	RedisPort   string `toml:"redis_port" env:"REDIS_PORT, overwrite"`
	RedisDB     int    `toml:"redis_db" env:"REDIS_DB, overwrite"`
	RedisPrefix string `toml:"redis_prefix" env:"REDIS_PREFIX, overwrite"`
	// http
	AllowedOrigins              []string `toml:"allowed_origins" env:"ALLOWED_ORIGINS, overwrite"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min" env:"LOGIN_RATE_LIMIT_ALLOWED_PER_MIN, overwrite"`
	MCPEnabled                  bool     `toml:"mcp_enabled" env:"MCP_ENABLED, overwrite"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host" env:"PROMETHEUS_METRICS_HOST, overwrite"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port" env:"PROMETHEUS_METRICS_PORT, overwrite"`
}

type Toml struct {
	Development *Config
	Production  *Config
	DockerDev   *Config `toml:"dockerdev"`
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	case "ddev", "dockerdev":
		return t.DockerDev, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the env section of the TOML file at path, applies WORKOUT_*
// env overrides and validates the result.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: no [%s] section in %s", ErrInvalidConfig, env, path)
	}

	if err := ApplyEnv(context.Background(), cfg, envconfig.OsLookuper()); err != nil {
		return nil, err
	}
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg fields from lookuper, with EnvPrefix prepended to every key.
func ApplyEnv(ctx context.Context, cfg *Config, lookuper envconfig.Lookuper) error {
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
	}); err != nil {
		return fmt.Errorf("apply env overrides: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "", "sqlite", "disk", "memory":
	case "redis":
		if c.RedisHost == "" || c.RedisPort == "" {
			return fmt.Errorf("%w: redis backend needs redis_host and redis_port", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.StorageBackend)
	}

	if (c.StorageBackend == "" || c.StorageBackend == "sqlite" || c.StorageBackend == "disk") && c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is required for the %q backend", ErrInvalidConfig, c.StorageBackend)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.CacheSizeBytes < 0 || c.CacheExpireSeconds < 0 {
		return fmt.Errorf("%w: negative cache settings", ErrInvalidConfig)
	}
	if c.LoginRateLimitAllowedPerMin < 0 {
		return fmt.Errorf("%w: negative login rate limit", ErrInvalidConfig)
	}
	return nil
}

// Secrets come only from the environment, never from the config file.
type Secrets struct {
	RedisPassword    string `env:"WORKOUT_REDIS_PASS"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME, default=workout-tracker"`
}

func LoadSecrets(ctx context.Context, lookuper envconfig.Lookuper) (*Secrets, error) {
	var s Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load secrets: %w", err)
	}
	return &s, nil
}
