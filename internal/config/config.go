package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Log       LogConfig
	Ledger    LedgerConfig
	Effects   EffectsConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds the settings used to validate caller identity tokens.
// Tokens are issued by the authentication service, not by this process.
type JWTConfig struct {
	Secret   string `mapstructure:"secret"`
	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LedgerConfig holds settings of the billing and cash ledger.
type LedgerConfig struct {
	// MaxVersionRetries bounds the optimistic-concurrency loops of the
	// challan status engine and cash session close.
	MaxVersionRetries int    `mapstructure:"max_version_retries"`
	Timezone          string `mapstructure:"timezone"`
}

// Location resolves Timezone, falling back to UTC.
func (l *LedgerConfig) Location() *time.Location {
	if l.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EffectsConfig holds settings of the non-fatal side-effect dispatcher.
type EffectsConfig struct {
	Async       bool          `mapstructure:"async"`
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds per-tenant request limits.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// Load reads configuration from environment variables with the KHUSHI_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("KHUSHI")
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "20s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "khushi")
	v.SetDefault("db.password", "khushi_secret")
	v.SetDefault("db.name", "khushi_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "khushi")
	v.SetDefault("jwt.audience", "access")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Ledger defaults
	v.SetDefault("ledger.max_version_retries", 5)
	v.SetDefault("ledger.timezone", "UTC")

	// Effects defaults
	v.SetDefault("effects.async", true)
	v.SetDefault("effects.concurrency", 8)
	v.SetDefault("effects.timeout", "30s")

	// Rate limit defaults
	v.SetDefault("rate_limit.requests_per_second", 20)
	v.SetDefault("rate_limit.burst", 40)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "KHUSHI_SERVER_PORT",
		"server.read_timeout":            "KHUSHI_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "KHUSHI_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout":        "KHUSHI_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":             "KHUSHI_SERVER_ENVIRONMENT",
		"db.host":                        "KHUSHI_DB_HOST",
		"db.port":                        "KHUSHI_DB_PORT",
		"db.user":                        "KHUSHI_DB_USER",
		"db.password":                    "KHUSHI_DB_PASSWORD",
		"db.name":                        "KHUSHI_DB_NAME",
		"db.sslmode":                     "KHUSHI_DB_SSLMODE",
		"db.max_open":                    "KHUSHI_DB_MAX_OPEN",
		"db.max_idle":                    "KHUSHI_DB_MAX_IDLE",
		"jwt.secret":                     "KHUSHI_JWT_SECRET",
		"jwt.issuer":                     "KHUSHI_JWT_ISSUER",
		"jwt.audience":                   "KHUSHI_JWT_AUDIENCE",
		"log.level":                      "KHUSHI_LOG_LEVEL",
		"log.format":                     "KHUSHI_LOG_FORMAT",
		"ledger.max_version_retries":     "KHUSHI_LEDGER_MAX_VERSION_RETRIES",
		"ledger.timezone":                "KHUSHI_LEDGER_TIMEZONE",
		"effects.async":                  "KHUSHI_EFFECTS_ASYNC",
		"effects.concurrency":            "KHUSHI_EFFECTS_CONCURRENCY",
		"effects.timeout":                "KHUSHI_EFFECTS_TIMEOUT",
		"rate_limit.requests_per_second": "KHUSHI_RATE_LIMIT_REQUESTS_PER_SECOND",
		"rate_limit.burst":               "KHUSHI_RATE_LIMIT_BURST",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Platform-provided PORT wins unless KHUSHI_SERVER_PORT is explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("KHUSHI_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:   v.GetString("jwt.secret"),
		Issuer:   v.GetString("jwt.issuer"),
		Audience: v.GetString("jwt.audience"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Ledger = LedgerConfig{
		MaxVersionRetries: v.GetInt("ledger.max_version_retries"),
		Timezone:          v.GetString("ledger.timezone"),
	}
	cfg.Effects = EffectsConfig{
		Async:       v.GetBool("effects.async"),
		Concurrency: v.GetInt("effects.concurrency"),
		Timeout:     v.GetDuration("effects.timeout"),
	}
	cfg.RateLimit = RateLimitConfig{
		RequestsPerSecond: v.GetFloat64("rate_limit.requests_per_second"),
		Burst:             v.GetInt("rate_limit.burst"),
	}

	if cfg.Ledger.MaxVersionRetries < 1 {
		return nil, fmt.Errorf("ledger.max_version_retries must be at least 1, got %d", cfg.Ledger.MaxVersionRetries)
	}
	if _, err := time.LoadLocation(cfg.Ledger.Timezone); err != nil {
		return nil, fmt.Errorf("invalid ledger.timezone %q: %w", cfg.Ledger.Timezone, err)
	}

	return cfg, nil
}
