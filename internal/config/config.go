package config

import "time"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Store    StoreConfig    `mapstructure:"store" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// BasePath is the versioned prefix every task route is mounted under.
	BasePath        string        `mapstructure:"base_path" validate:"omitempty,startswith=/"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// StoreConfig selects the task store backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory postgres"`
}

// DatabaseConfig contains the settings of the durable backend.
// They are only required when Store.Backend is "postgres".
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
	// Table may be schema qualified, e.g. "flask_task.task".
	Table            string        `mapstructure:"table" validate:"required"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout" validate:"gte=0"`
	MaxOpenConns     int           `mapstructure:"max_open_conns" validate:"gte=0"`
	Migrate          bool          `mapstructure:"migrate"`
}

// AuthConfig holds the two static bearer tokens. Each role accepts either a
// plaintext token or a bcrypt hash of it.
type AuthConfig struct {
	UserToken      string `mapstructure:"user_token" validate:"required_without=UserTokenHash"`
	UserTokenHash  string `mapstructure:"user_token_hash"`
	AdminToken     string `mapstructure:"admin_token" validate:"required_without=AdminTokenHash"`
	AdminTokenHash string `mapstructure:"admin_token_hash"`
}
