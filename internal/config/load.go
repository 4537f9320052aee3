package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// dotEnvFile is read from the working directory before the environment.
const dotEnvFile = ".env"

// EnvPrefix is prepended to every environment variable, e.g. TASKAPI_SERVER_PORT.
const EnvPrefix = "TASKAPI"

var defaults = map[string]any{
	"server.port":                8080,
	"server.log_level":           "info",
	"server.base_path":           "/api/v1.0",
	"server.shutdown_timeout":    10 * time.Second,
	"store.backend":              BackendMemory,
	"database.url":               "",
	"database.table":             "tasks",
	"database.statement_timeout": 5 * time.Second,
	"database.max_open_conns":    10,
	"database.migrate":           false,
	"auth.user_token":            "",
	"auth.user_token_hash":       "",
	"auth.admin_token":           "",
	"auth.admin_token_hash":      "",
}

// Load configuration from environment variables and optionally config files.
// A .env file in the working directory is loaded first without overriding
// variables already set. Environment variables take precedence over values
// from config.yaml. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error; an
// unreadable or malformed one is.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate checks cfg against its struct tags and the cross-section rules.
func Validate(cfg *Config) error {
	validate := validator.New()
	validate.RegisterStructValidation(validateBackend, Config{})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// validateBackend requires a database URL when the durable backend is selected.
func validateBackend(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Store.Backend == BackendPostgres && cfg.Database.URL == "" {
		sl.ReportError(cfg.Database.URL, "Database.URL", "URL", "required_with_postgres", "")
	}
}
