// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultMaxFileSizeMB bounds the size of XBRL payloads accepted for
// parsing. Filings beyond this are rejected before any XML work starts.
const DefaultMaxFileSizeMB = 15

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Validation struct {
		AbsoluteTolerance float64 `mapstructure:"absolute_tolerance" yaml:"absolute_tolerance"`
		RelativeTolerance float64 `mapstructure:"relative_tolerance" yaml:"relative_tolerance"`
	} `mapstructure:"validation" yaml:"validation"`

	Concepts struct {
		OverridesFile string `mapstructure:"overrides_file" yaml:"overrides_file"`
	} `mapstructure:"concepts" yaml:"concepts"`

	Input struct {
		MaxFileSizeMB int64 `mapstructure:"max_file_size_mb" yaml:"max_file_size_mb"`
	} `mapstructure:"input" yaml:"input"`

	Output struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"output" yaml:"output"`

	Batch struct {
		// Workers 0 means one worker per CPU.
		Workers int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"batch" yaml:"batch"`
}

// MaxFileSizeBytes returns the configured payload cap in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.Input.MaxFileSizeMB * 1024 * 1024
}

// InitializeConfig initializes Viper configuration with hierarchical
// loading: defaults, then an optional config file, then XBRL_* environment
// variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.xbrl-xlsx")
	v.AddConfigPath(".xbrl-xlsx")
	v.AddConfigPath(".")

	v.SetEnvPrefix("XBRL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("validation.absolute_tolerance", 1.0)
	v.SetDefault("validation.relative_tolerance", 0.01)

	v.SetDefault("concepts.overrides_file", "")

	v.SetDefault("input.max_file_size_mb", DefaultMaxFileSizeMB)

	v.SetDefault("output.directory", "")

	v.SetDefault("batch.workers", 0)
}

// validateConfig validates the configuration values.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Validation.AbsoluteTolerance < 0 {
		return fmt.Errorf("validation.absolute_tolerance must not be negative, got: %f", config.Validation.AbsoluteTolerance)
	}
	if config.Validation.RelativeTolerance < 0 || config.Validation.RelativeTolerance > 1 {
		return fmt.Errorf("validation.relative_tolerance must be between 0.0 and 1.0, got: %f", config.Validation.RelativeTolerance)
	}

	if config.Input.MaxFileSizeMB < 1 {
		return fmt.Errorf("input.max_file_size_mb must be at least 1, got: %d", config.Input.MaxFileSizeMB)
	}

	if config.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative, got: %d", config.Batch.Workers)
	}

	return nil
}

// ConfigureLoggingFromConfig builds a logrus logger from the Config.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if config.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
