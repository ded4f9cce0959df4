// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	General struct {
		InputDir       string `mapstructure:"input_dir" yaml:"input_dir"`
		ExportDir      string `mapstructure:"export_dir" yaml:"export_dir"`
		DatabaseFile   string `mapstructure:"database_file" yaml:"database_file"`
		LookbackYears  int    `mapstructure:"lookback_years" yaml:"lookback_years"`
		CategoriesFile string `mapstructure:"categories_file" yaml:"categories_file"`
		Timezone       string `mapstructure:"timezone" yaml:"timezone"`
	} `mapstructure:"general" yaml:"general"`

	API struct {
		BaseURL           string  `mapstructure:"base_url" yaml:"base_url"`
		PageSize          int     `mapstructure:"page_size" yaml:"page_size"`
		TimeoutSeconds    int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	} `mapstructure:"api" yaml:"api"`

	Export struct {
		Format       string `mapstructure:"format" yaml:"format"`
		CSVDelimiter string `mapstructure:"csv_delimiter" yaml:"csv_delimiter"`
	} `mapstructure:"export" yaml:"export"`

	// Categories maps category identifiers to labels. Viper lower-cases the keys.
	Categories map[string]string `mapstructure:"categories" yaml:"categories"`

	location *time.Location
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.revol-ver")
	v.AddConfigPath(".revol-ver")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("REVOLVER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	return unmarshalConfig(v)
}

// LoadConfigFile reads configuration from an explicit file, still honouring
// defaults and environment overrides.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("REVOLVER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return unmarshalConfig(v)
}

func unmarshalConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.Categories == nil {
		config.Categories = map[string]string{}
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("general.input_dir", "consume")
	v.SetDefault("general.export_dir", "exports")
	v.SetDefault("general.database_file", "trans_db.sql")
	v.SetDefault("general.lookback_years", 2)
	v.SetDefault("general.categories_file", "")
	v.SetDefault("general.timezone", "Local")

	v.SetDefault("api.base_url", "https://app.revolut.com")
	v.SetDefault("api.page_size", 500)
	v.SetDefault("api.timeout_seconds", 30)
	v.SetDefault("api.requests_per_second", 2)

	v.SetDefault("export.format", "xlsx")
	v.SetDefault("export.csv_delimiter", ",")
}

// validateConfig validates the configuration values and resolves the timezone.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.General.LookbackYears < 0 || config.General.LookbackYears > 20 {
		return fmt.Errorf("general.lookback_years must be between 0 and 20, got: %d", config.General.LookbackYears)
	}

	if config.API.PageSize < 1 || config.API.PageSize > 500 {
		return fmt.Errorf("api.page_size must be between 1 and 500, got: %d", config.API.PageSize)
	}

	if config.API.TimeoutSeconds < 1 || config.API.TimeoutSeconds > 300 {
		return fmt.Errorf("api.timeout_seconds must be between 1 and 300, got: %d", config.API.TimeoutSeconds)
	}

	switch strings.ToLower(config.Export.Format) {
	case "xlsx", "csv":
	default:
		return fmt.Errorf("invalid export format: %s (must be 'xlsx' or 'csv')", config.Export.Format)
	}

	if len([]rune(config.Export.CSVDelimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %q", config.Export.CSVDelimiter)
	}

	loc, err := time.LoadLocation(config.General.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", config.General.Timezone, err)
	}
	config.location = loc

	return nil
}

// Location returns the timezone used to interpret dates.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// Delimiter returns the CSV export delimiter as a rune.
func (c *Config) Delimiter() rune {
	for _, r := range c.Export.CSVDelimiter {
		return r
	}
	return ','
}

// Timeout returns the API request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// ConfigureLoggingFromConfig configures a logrus logger based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
