// Package config provides application configuration management from environment variables
// and an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Client side
	APIBaseURL      string        `mapstructure:"api_base_url"`
	APIToken        string        `mapstructure:"api_token"`
	SuggestDebounce time.Duration `mapstructure:"suggest_debounce"`
	SearchLimit     int           `mapstructure:"search_limit"`
	LocalFallback   bool          `mapstructure:"local_fallback"`
	Reconcile       string        `mapstructure:"reconcile"`

	// Dev API server
	APIHost     string        `mapstructure:"api_host"`
	APIPort     string        `mapstructure:"api_port"`
	DataDir     string        `mapstructure:"data_dir"`
	DatabaseURL string        `mapstructure:"database_url"`
	RedisAddr   string        `mapstructure:"redis_addr"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	JWTSecret   string        `mapstructure:"jwt_secret"`

	LogLevel string `mapstructure:"log_level"`
}

var defaults = map[string]any{
	"api_base_url":     "http://localhost:8080",
	"api_token":        "",
	"suggest_debounce": "350ms",
	"search_limit":     20,
	"local_fallback":   false,
	"reconcile":        "refetch",
	"api_host":         "0.0.0.0",
	"api_port":         "8080",
	"data_dir":         "./data",
	"database_url":     "",
	"redis_addr":       "",
	"cache_ttl":        "30s",
	"jwt_secret":       "quitoemprende-dev-secret",
	"log_level":        "info",
}

// Load reads configuration from environment variables, falling back to
// config.yaml in the working directory or ./config, then built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail later at request time
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.SuggestDebounce < 0 {
		return fmt.Errorf("SUGGEST_DEBOUNCE must not be negative")
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("SEARCH_LIMIT must be positive")
	}
	if c.Reconcile != "refetch" && c.Reconcile != "rollback" {
		return fmt.Errorf("RECONCILE must be refetch or rollback, got %q", c.Reconcile)
	}
	return nil
}

// Addr returns the dev server listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.APIHost, c.APIPort)
}
