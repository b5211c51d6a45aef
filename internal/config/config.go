package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	HTTPPort           string        `yaml:"http_port"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	MaxRequestBodySize int64         `yaml:"max_request_body_size"`

	CatalogPath string `yaml:"catalog_path"`
	CatalogDB   string `yaml:"catalog_db"` // sqlite file; takes precedence over CatalogPath when set

	GeminiAPIKey       string        `yaml:"gemini_api_key"`
	GeminiModel        string        `yaml:"gemini_model"`
	FallbackTimeout    time.Duration `yaml:"fallback_timeout"`
	BreakerFailures    uint32        `yaml:"breaker_failures"`
	BreakerOpenTimeout time.Duration `yaml:"breaker_open_timeout"`

	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`

	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`

	LogLevel       string `yaml:"log_level"`
	LogDevelopment bool   `yaml:"log_development"`
}

func Default() *Config {
	return &Config{
		HTTPPort:           "5000",
		RequestTimeout:     30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
		CatalogPath:        "products.json",
		GeminiModel:        "gemini-2.0-flash",
		FallbackTimeout:    10 * time.Second,
		BreakerFailures:    3,
		BreakerOpenTimeout: 30 * time.Second,
		CacheTTL:           15 * time.Minute,
		KafkaTopic:         "orders-confirmed",
		LogLevel:           "info",
	}
}

// Load applies, in order: defaults, the optional YAML file, environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var err error

	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.CatalogPath = getEnv("CATALOG_PATH", cfg.CatalogPath)
	cfg.CatalogDB = getEnv("CATALOG_DB", cfg.CatalogDB)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = splitList(brokers)
	}

	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return err
	}
	if cfg.FallbackTimeout, err = getDuration("FALLBACK_TIMEOUT", cfg.FallbackTimeout); err != nil {
		return err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", cfg.CacheTTL); err != nil {
		return err
	}
	if v := getEnv("LOG_DEVELOPMENT", ""); v != "" {
		if cfg.LogDevelopment, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("%w: LOG_DEVELOPMENT: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("%w: http port is required", ErrInvalidConfig)
	}
	if c.CatalogPath == "" && c.CatalogDB == "" {
		return fmt.Errorf("%w: catalog path or catalog db is required", ErrInvalidConfig)
	}
	if c.FallbackTimeout <= 0 {
		return fmt.Errorf("%w: fallback timeout must be positive", ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
