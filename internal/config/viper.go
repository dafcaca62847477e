// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Default ANSM locations.
const (
	DefaultPageURL   = "https://ansm.sante.fr/documents/reference/thesaurus-des-interactions-medicamenteuses-1"
	DefaultBaseURL   = "https://ansm.sante.fr"
	DefaultUserAgent = "Mozilla/5.0 (compatible; Nephila/1.0; HealthTech Research)"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Parser struct {
		Layout     string `mapstructure:"layout" yaml:"layout"`
		ProbePages int    `mapstructure:"probe_pages" yaml:"probe_pages"`
	} `mapstructure:"parser" yaml:"parser"`

	PDF struct {
		DetectTables bool    `mapstructure:"detect_tables" yaml:"detect_tables"`
		CellGap      float64 `mapstructure:"cell_gap" yaml:"cell_gap"`
	} `mapstructure:"pdf" yaml:"pdf"`

	Store struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"store" yaml:"store"`

	Fetch struct {
		PageURL        string `mapstructure:"page_url" yaml:"page_url"`
		BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
		Dest           string `mapstructure:"dest" yaml:"dest"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		UserAgent      string `mapstructure:"user_agent" yaml:"user_agent"`
	} `mapstructure:"fetch" yaml:"fetch"`

	Schedule struct {
		Times string `mapstructure:"times" yaml:"times"`
	} `mapstructure:"schedule" yaml:"schedule"`

	Metrics struct {
		Textfile string `mapstructure:"textfile" yaml:"textfile"`
	} `mapstructure:"metrics" yaml:"metrics"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.thesaurus")
	v.AddConfigPath(".thesaurus")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("THESAURUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
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
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("parser.layout", "auto")
	v.SetDefault("parser.probe_pages", 5)

	v.SetDefault("pdf.detect_tables", true)
	v.SetDefault("pdf.cell_gap", 12.0)

	v.SetDefault("store.path", "data/raw/thesaurus.db")

	v.SetDefault("fetch.page_url", DefaultPageURL)
	v.SetDefault("fetch.base_url", DefaultBaseURL)
	v.SetDefault("fetch.dest", "data/bronze/ansm/thesaurus.pdf")
	v.SetDefault("fetch.timeout_seconds", 120)
	v.SetDefault("fetch.user_agent", DefaultUserAgent)

	v.SetDefault("schedule.times", "06:00;18:00")

	v.SetDefault("metrics.textfile", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	switch strings.ToLower(config.Parser.Layout) {
	case "auto", "text", "table":
	default:
		return fmt.Errorf("invalid parser layout: %s (must be 'auto', 'text' or 'table')", config.Parser.Layout)
	}

	if config.Parser.ProbePages < 1 {
		return fmt.Errorf("parser.probe_pages must be positive, got: %d", config.Parser.ProbePages)
	}

	if config.PDF.CellGap <= 0 {
		return fmt.Errorf("pdf.cell_gap must be positive, got: %f", config.PDF.CellGap)
	}

	if config.Fetch.TimeoutSeconds < 1 || config.Fetch.TimeoutSeconds > 3600 {
		return fmt.Errorf("fetch.timeout_seconds must be between 1 and 3600, got: %d", config.Fetch.TimeoutSeconds)
	}

	if strings.TrimSpace(config.Schedule.Times) == "" {
		return fmt.Errorf("schedule.times must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
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
