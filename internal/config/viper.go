// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "FINANCE"

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// RulesConfig locates the category rules file.
type RulesConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// FXConfig configures exchange rate lookup. When StaticRates is not empty
// rates are served from it and the HTTP API is never called.
type FXConfig struct {
	BaseURL        string                        `mapstructure:"base_url" yaml:"base_url"`
	TTLSeconds     int                           `mapstructure:"ttl_seconds" yaml:"ttl_seconds"`
	TimeoutSeconds int                           `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	StaticRates    map[string]map[string]float64 `mapstructure:"static_rates" yaml:"static_rates"`
}

// TTL returns the cache lifetime of fetched rates.
func (c FXConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Timeout returns the bound on a single rate request.
func (c FXConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ReportConfig holds report defaults.
type ReportConfig struct {
	Format   string `mapstructure:"format" yaml:"format"`
	Currency string `mapstructure:"currency" yaml:"currency"`
}

// Config represents the complete application configuration
type Config struct {
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Rules  RulesConfig  `mapstructure:"rules" yaml:"rules"`
	FX     FXConfig     `mapstructure:"fx" yaml:"fx"`
	Report ReportConfig `mapstructure:"report" yaml:"report"`
}

// Load initializes configuration with hierarchical loading: defaults, then
// the config file, then FINANCE_* environment variables. An empty configFile
// searches config.yaml in $HOME/.finance, .finance and the current directory.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.finance")
		v.AddConfigPath(".finance")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Rules defaults
	v.SetDefault("rules.file", "categories.yaml")

	// FX defaults
	v.SetDefault("fx.base_url", "https://open.er-api.com/v6/latest")
	v.SetDefault("fx.ttl_seconds", 3600)
	v.SetDefault("fx.timeout_seconds", 10)

	// Report defaults
	v.SetDefault("report.format", "text")
	v.SetDefault("report.currency", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if strings.TrimSpace(config.Rules.File) == "" {
		return fmt.Errorf("rules.file must not be empty")
	}

	// Validate FX configuration
	if len(config.FX.StaticRates) == 0 {
		u, err := url.Parse(config.FX.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("fx.base_url must be an http(s) URL, got: %s", config.FX.BaseURL)
		}
	}
	if config.FX.TTLSeconds < 1 {
		return fmt.Errorf("fx.ttl_seconds must be positive, got: %d", config.FX.TTLSeconds)
	}
	if config.FX.TimeoutSeconds < 1 || config.FX.TimeoutSeconds > 300 {
		return fmt.Errorf("fx.timeout_seconds must be between 1 and 300, got: %d", config.FX.TimeoutSeconds)
	}
	for base, rates := range config.FX.StaticRates {
		for currency, rate := range rates {
			if rate <= 0 {
				return fmt.Errorf("fx.static_rates.%s.%s must be positive, got: %g", base, currency, rate)
			}
		}
	}

	// Validate report defaults
	switch strings.ToLower(config.Report.Format) {
	case "text", "csv", "json", "yaml", "yml":
	default:
		return fmt.Errorf("invalid report format: %s (must be text, csv, json or yaml)", config.Report.Format)
	}
	if c := strings.TrimSpace(config.Report.Currency); c != "" && len(c) != 3 {
		return fmt.Errorf("report.currency must be a 3-letter code, got: %s", config.Report.Currency)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from the Config.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}

// Validate checks the configuration after programmatic changes such as
// command-line overrides.
func (c *Config) Validate() error {
	return validateConfig(c)
}
