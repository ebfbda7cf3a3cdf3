// Package querykit opens an engine from configuration. The engine package
// holds the query surface; this package wires a provider, logging and the
// caches together.
package querykit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Konsultn-Engineering/querykit/cache"
	"github.com/Konsultn-Engineering/querykit/connector"
	"github.com/Konsultn-Engineering/querykit/engine"
	"github.com/Konsultn-Engineering/querykit/logging"

	_ "github.com/Konsultn-Engineering/querykit/providers/mysql"
	_ "github.com/Konsultn-Engineering/querykit/providers/postgres"
	_ "github.com/Konsultn-Engineering/querykit/providers/pq"
	_ "github.com/Konsultn-Engineering/querykit/providers/sqlite"
)

var ErrNoDriver = errors.New("querykit: driver is required")

const envPrefix = "QUERYKIT"

type Config struct {
	// Driver names a registered provider: postgres, pgx, pq, mysql, tidb
	// or sqlite.
	Driver   string           `mapstructure:"driver"`
	Database connector.Config `mapstructure:"database"`
	Logging  logging.Config   `mapstructure:"logging"`
	Cache    CacheConfig      `mapstructure:"cache"`
}

// CacheConfig sizes the engine caches. Zero disables a cache.
type CacheConfig struct {
	Statements int `mapstructure:"statements"`
	Queries    int `mapstructure:"queries"`
}

// LoadConfig reads path (YAML, JSON or TOML by extension) and applies
// QUERYKIT_* environment overrides, for example QUERYKIT_DATABASE_HOST.
// An empty path reads the environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("querykit: read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("querykit: decode config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal
// even when the file does not mention them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("driver", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.database", "")
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "")
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.pool.max_open", 0)
	v.SetDefault("database.pool.max_idle", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)
	v.SetDefault("cache.statements", 256)
	v.SetDefault("cache.queries", 1024)
}

// Open connects through the configured provider and returns an engine over
// the connection. Closing the engine closes the connection.
func Open(ctx context.Context, cfg *Config) (*engine.Engine, error) {
	if cfg.Driver == "" {
		return nil, ErrNoDriver
	}

	logger := logging.New(cfg.Logging)
	conn, err := connector.Open(ctx, cfg.Driver, cfg.Database)
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.Driver).Msg("connect failed")
		return nil, err
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithStatementCache(cfg.Cache.Statements),
	}
	if cfg.Cache.Queries > 0 {
		opts = append(opts, engine.WithQueryCache(cache.NewQueryCache(cfg.Cache.Queries)))
	}

	logger.Info().
		Str("driver", cfg.Driver).
		Str("dialect", conn.Dialect().Name()).
		Msg("connected")
	return engine.New(conn.Conn(), conn.Dialect(), opts...), nil
}
