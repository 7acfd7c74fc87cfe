// Package config provides parsing functionality for environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Config stores all configuration of the application.
// The values are read by viper from an optional app.env file or environment
// variables; the environment wins.
type Config struct {
	ServerAddress  string        `mapstructure:"SERVER_ADDRESS"`
	MetricsAddress string        `mapstructure:"METRICS_ADDRESS"`
	StorageBackend string        `mapstructure:"STORAGE_BACKEND"`
	DBPath         string        `mapstructure:"DB_PATH"`
	DataDir        string        `mapstructure:"DATA_DIR"`
	AuthSecret     string        `mapstructure:"AUTH_SECRET"`
	TokenDuration  time.Duration `mapstructure:"TOKEN_DURATION"`
	AMQPURL        string        `mapstructure:"AMQP_URL"`
	AMQPExchange   string        `mapstructure:"AMQP_EXCHANGE"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LogFormat      string        `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":  ":8080",
	"METRICS_ADDRESS": ":9090",
	"STORAGE_BACKEND": BackendSQLite,
	"DB_PATH":         "./data/splitpool.db",
	"DATA_DIR":        "./data/groups",
	"AUTH_SECRET":     "",
	"TOKEN_DURATION":  24 * time.Hour,
	"AMQP_URL":        "",
	"AMQP_EXCHANGE":   "splitpool",
	"LOG_LEVEL":       "info",
	"LOG_FORMAT":      "text",
}

// Load reads app.env from path if present, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// AuthEnabled reports whether RPCs require a bearer token.
func (c Config) AuthEnabled() bool { return c.AuthSecret != "" }

// EventsEnabled reports whether ledger events go to a broker.
func (c Config) EventsEnabled() bool { return c.AMQPURL != "" }

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.ServerAddress == "" {
		errs = append(errs, errors.New("SERVER_ADDRESS is required"))
	}
	switch c.StorageBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite backend"))
		}
	case BackendJSON:
		if c.DataDir == "" {
			errs = append(errs, errors.New("DATA_DIR is required for the json backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendSQLite, BackendJSON, c.StorageBackend))
	}
	if c.AuthEnabled() && c.TokenDuration <= 0 {
		errs = append(errs, errors.New("TOKEN_DURATION must be positive"))
	}
	if c.EventsEnabled() && c.AMQPExchange == "" {
		errs = append(errs, errors.New("AMQP_EXCHANGE is required when AMQP_URL is set"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}
