// Package config loads settings from an optional YAML file and PRAGATI_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "PRAGATI"

type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Tracker TrackerConfig `mapstructure:"tracker"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type StorageConfig struct {
	// Path of the SQLite file. Empty means <user config dir>/pragati/pragati.db.
	Path string `mapstructure:"path"`
	Mode string `mapstructure:"mode"` // "plain" or "secure"
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File receives log output. Empty means stderr for headless commands and
	// <user config dir>/pragati/pragati.log for the TUI.
	File string `mapstructure:"file"`
}

type TrackerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	ChartPoints  int           `mapstructure:"chart_points"`
	ChartRefresh time.Duration `mapstructure:"chart_refresh"`
}

type MetricsConfig struct {
	// ListenAddr enables the /metrics endpoint for watch mode when set.
	ListenAddr string `mapstructure:"listen_addr"`
}

// DefaultPath is where Load looks when no file is given.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}
	return filepath.Join(dir, "pragati", "config.yaml"), nil
}

// Load reads configPath, or the default location when configPath is empty.
// A missing default file is fine; a missing explicit file is an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := configPath != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			configPath = p
		}
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
			if explicit || !missing {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.mode", "plain")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")

	v.SetDefault("tracker.tick_interval", "1s")
	v.SetDefault("tracker.chart_points", 12)
	v.SetDefault("tracker.chart_refresh", "10s")

	v.SetDefault("metrics.listen_addr", "")
}

func validate(cfg *Config) error {
	cfg.Storage.Mode = strings.ToLower(strings.TrimSpace(cfg.Storage.Mode))
	switch cfg.Storage.Mode {
	case "plain", "secure":
	default:
		return fmt.Errorf("storage mode must be plain or secure, got %q", cfg.Storage.Mode)
	}

	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log format must be json or text, got %q", cfg.Logging.Format)
	}

	if cfg.Tracker.TickInterval < 100*time.Millisecond {
		return fmt.Errorf("tracker tick interval %s is below 100ms", cfg.Tracker.TickInterval)
	}
	if cfg.Tracker.ChartPoints < 1 || cfg.Tracker.ChartPoints > 120 {
		return fmt.Errorf("tracker chart points must be between 1 and 120, got %d", cfg.Tracker.ChartPoints)
	}
	if cfg.Tracker.ChartRefresh < 0 {
		return fmt.Errorf("tracker chart refresh cannot be negative")
	}
	return nil
}
