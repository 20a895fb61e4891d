package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported values for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config contains runtime configuration required by the service.
type Config struct {
	HTTPAddr        string        `mapstructure:"HTTP_ADDR"`
	DBDriver        string        `mapstructure:"DB_DRIVER"`
	DBURL           string        `mapstructure:"DB_URL"`
	Version         string        `mapstructure:"VERSION"`
	IngestKeysRaw   string        `mapstructure:"INGEST_KEYS"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	MaxBodyBytes    int64         `mapstructure:"MAX_BODY_BYTES"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	// IngestKeys maps key -> label. Empty means POST /ping is open.
	IngestKeys map[string]string `mapstructure:"-"`
}

// Load reads .env (if present) and the environment. Env vars win over .env.
// defaultVersion is used when VERSION is unset, normally the build-time version.
// INGEST_KEYS format: "label1:key1,label2:key2"
func Load(defaultVersion string) (Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // missing .env is fine

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_URL", "")
	v.SetDefault("VERSION", defaultVersion)
	v.SetDefault("INGEST_KEYS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_BODY_BYTES", 64<<10)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.DBURL = strings.TrimSpace(cfg.DBURL)

	if cfg.HTTPAddr == "" {
		return Config{}, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return Config{}, fmt.Errorf("config: DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DBDriver)
	}
	if cfg.DBURL == "" {
		return Config{}, errors.New("config: DB_URL required")
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, errors.New("config: MAX_BODY_BYTES must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, errors.New("config: SHUTDOWN_TIMEOUT must be > 0")
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return Config{}, err
	}

	keys, err := parseIngestKeys(cfg.IngestKeysRaw)
	if err != nil {
		return Config{}, err
	}
	cfg.IngestKeys = keys

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func parseIngestKeys(raw string) (map[string]string, error) {
	keys := map[string]string{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return keys, nil
	}

	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts := strings.SplitN(p, ":", 2)
		if len(parts) != 2 {
			return nil, errors.New(`config: INGEST_KEYS must be "label:key,label:key"`)
		}
		label := strings.TrimSpace(parts[0])
		key := strings.TrimSpace(parts[1])
		if label == "" || key == "" {
			return nil, errors.New(`config: INGEST_KEYS must be "label:key,label:key"`)
		}
		keys[key] = label
	}
	return keys, nil
}
