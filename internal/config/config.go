// Package config provides configuration management for the wave analysis application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	apperrors "wavescan/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	UI       UIConfig       `mapstructure:"ui"`
}

// AnalysisConfig holds wave detection parameters.
type AnalysisConfig struct {
	// Threshold is the fractional swing size below which a price move is
	// not considered a trend reversal (0.05 = 5%).
	Threshold float64 `mapstructure:"threshold"`
	// IntradayThreshold is the alternate, more sensitive threshold used
	// by intraday timeframes.
	IntradayThreshold float64 `mapstructure:"intraday_threshold"`
	// SampleLimit is the bar count above which the input series is
	// downsampled by stride before analysis. Downsampling bounds latency
	// on large inputs at the cost of pivot precision.
	SampleLimit int `mapstructure:"sample_limit"`
	// ProgressChunk is the bar-count window between progress
	// notifications during long analyses.
	ProgressChunk int `mapstructure:"progress_chunk"`
}

// CacheConfig holds analysis cache configuration.
type CacheConfig struct {
	Capacity int           `mapstructure:"capacity"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	TimeFormat   string `mapstructure:"time_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/wavescan"
	}
	return filepath.Join(home, ".config", "wavescan")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Threshold:         0.05,
			IntradayThreshold: 0.03,
			SampleLimit:       300,
			ProgressChunk:     50,
		},
		Cache: CacheConfig{
			Capacity: 100,
			TTL:      10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
		UI: UIConfig{
			ColorEnabled: true,
			TimeFormat:   "2006-01-02 15:04",
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing config
// file is not an error: defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("analysis.threshold", cfg.Analysis.Threshold)
	v.SetDefault("analysis.intraday_threshold", cfg.Analysis.IntradayThreshold)
	v.SetDefault("analysis.sample_limit", cfg.Analysis.SampleLimit)
	v.SetDefault("analysis.progress_chunk", cfg.Analysis.ProgressChunk)
	v.SetDefault("cache.capacity", cfg.Cache.Capacity)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("ui.color_enabled", cfg.UI.ColorEnabled)
	v.SetDefault("ui.time_format", cfg.UI.TimeFormat)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WAVESCAN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Analysis.Threshold <= 0 || c.Analysis.Threshold >= 1 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "analysis.threshold %.4f not in (0, 1)", c.Analysis.Threshold)
	}
	if c.Analysis.IntradayThreshold <= 0 || c.Analysis.IntradayThreshold >= 1 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "analysis.intraday_threshold %.4f not in (0, 1)", c.Analysis.IntradayThreshold)
	}
	if c.Analysis.SampleLimit < 7 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "analysis.sample_limit %d below minimum bar count", c.Analysis.SampleLimit)
	}
	if c.Analysis.ProgressChunk <= 0 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "analysis.progress_chunk must be positive")
	}
	if c.Cache.Capacity <= 0 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "cache.capacity must be positive")
	}
	if c.Cache.TTL <= 0 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "cache.ttl must be positive")
	}
	return nil
}
