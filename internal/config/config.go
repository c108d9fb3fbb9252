// Package config loads process settings from the environment and the economy
// tables from YAML.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/funko-battle/internal/errors"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config holds process level settings
type Config struct {
	GRPCPort int `env:"FUNKO_GRPC_PORT" envDefault:"50051"`
	HTTPPort int `env:"FUNKO_HTTP_PORT" envDefault:"8080"`

	Storage    string `env:"FUNKO_STORAGE" envDefault:"memory"`
	RedisAddr  string `env:"FUNKO_REDIS_ADDR" envDefault:"localhost:6379"`
	SQLitePath string `env:"FUNKO_SQLITE_PATH" envDefault:"funko.db"`

	// EconomyFile is optional; built in tables are used when empty
	EconomyFile string `env:"FUNKO_ECONOMY_FILE"`

	LogLevel  string `env:"FUNKO_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"FUNKO_LOG_FORMAT" envDefault:"text"`

	RateLimitRPS   float64 `env:"FUNKO_RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"FUNKO_RATE_LIMIT_BURST" envDefault:"40"`

	LedgerMaxAttempts int `env:"FUNKO_LEDGER_MAX_ATTEMPTS" envDefault:"5"`

	ShutdownTimeout time.Duration `env:"FUNKO_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load reads optional dotenv files (".env" when none are named) into the
// process environment and parses Config from it. Missing dotenv files are
// not an error.
func Load(dotenvFiles ...string) (*Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "failed to load dotenv file")
		}
		slog.Debug("no dotenv file found, using process environment")
	}

	return Parse(nil)
}

// Parse builds a Config from environment. A nil map reads the process
// environment.
func Parse(environment map[string]string) (*Config, error) {
	cfg := &Config{}

	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.InvalidArgumentf("failed to parse environment: %v", err)
	}

	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	validatePort("GRPCPort", c.GRPCPort, vb)
	validatePort("HTTPPort", c.HTTPPort, vb)
	errors.ValidateEnum("Storage", c.Storage, []string{StorageMemory, StorageRedis, StorageSQLite}, vb)

	switch c.Storage {
	case StorageRedis:
		errors.ValidateRequired("RedisAddr", c.RedisAddr, vb)
	case StorageSQLite:
		errors.ValidateRequired("SQLitePath", c.SQLitePath, vb)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		vb.Fieldf("LogLevel", "unknown level %q", c.LogLevel)
	}
	errors.ValidateEnum("LogFormat", strings.ToLower(c.LogFormat), []string{"text", "json"}, vb)

	if c.RateLimitRPS <= 0 {
		vb.Field("RateLimitRPS", "must be positive")
	}
	if c.RateLimitBurst < 1 {
		vb.Field("RateLimitBurst", "must be at least 1")
	}
	if c.LedgerMaxAttempts < 1 {
		vb.Field("LedgerMaxAttempts", "must be at least 1")
	}
	if c.ShutdownTimeout <= 0 {
		vb.Field("ShutdownTimeout", "must be positive")
	}

	return vb.Build()
}

// SlogLevel returns the configured log level, info when unparsable
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func validatePort(field string, port int, vb *errors.ValidationBuilder) {
	if port < 1 || port > 65535 {
		vb.Fieldf(field, "port %d out of range", port)
	}
}
