// Package config provides Viper-based hierarchical configuration management:
// builtin defaults, an optional config.yaml, then DONATION_* environment
// variables. The header-synonym sets and the institutional naming rules live
// here so they can be changed without touching the detection or allocation
// code.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Paths struct {
		Source        string `mapstructure:"source" yaml:"source"`
		Template      string `mapstructure:"template" yaml:"template"`
		OutputDocs    string `mapstructure:"output_docs" yaml:"output_docs"`
		OutputDetails string `mapstructure:"output_details" yaml:"output_details"`
	} `mapstructure:"paths" yaml:"paths"`

	Output struct {
		Overwrite bool `mapstructure:"overwrite" yaml:"overwrite"`
		DetailCSV bool `mapstructure:"detail_csv" yaml:"detail_csv"`
	} `mapstructure:"output" yaml:"output"`

	Naming struct {
		// CharityMarker / HoldingMarker are the filename substrings that
		// identify the two source file kinds.
		CharityMarker string `mapstructure:"charity_marker" yaml:"charity_marker"`
		HoldingMarker string `mapstructure:"holding_marker" yaml:"holding_marker"`
		// ShortNamePattern extracts the short product name (one capture
		// group). The default encodes the current institution's convention.
		ShortNamePattern string `mapstructure:"short_name_pattern" yaml:"short_name_pattern"`
	} `mapstructure:"naming" yaml:"naming"`

	Schemas struct {
		Charity map[string][]string `mapstructure:"charity" yaml:"charity"`
		Holding map[string][]string `mapstructure:"holding" yaml:"holding"`
	} `mapstructure:"schemas" yaml:"schemas"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.donation-docs")
	v.AddConfigPath(".donation-docs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DONATION")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Keep going with defaults and env vars; a broken config file
			// should not brick the tool.
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

	v.SetDefault("paths.source", "数据源")
	v.SetDefault("paths.template", "Template/代捐说明模版文件.txt")
	v.SetDefault("paths.output_docs", "输出/代捐说明")
	v.SetDefault("paths.output_details", "输出/明细表")

	v.SetDefault("output.overwrite", false)
	v.SetDefault("output.detail_csv", false)

	v.SetDefault("naming.charity_marker", "慈善")
	v.SetDefault("naming.holding_marker", "持有人份额汇总信息查询")
	v.SetDefault("naming.short_name_pattern", "鼎(.*?)集")

	// Empty maps mean "use the builtin synonym sets" (internal/schema).
	v.SetDefault("schemas.charity", map[string][]string{})
	v.SetDefault("schemas.holding", map[string][]string{})
}

// validateConfig validates the configuration values.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Naming.CharityMarker == "" || config.Naming.HoldingMarker == "" {
		return fmt.Errorf("naming.charity_marker and naming.holding_marker must not be empty")
	}

	if config.Naming.ShortNamePattern != "" {
		if _, err := regexp.Compile(config.Naming.ShortNamePattern); err != nil {
			return fmt.Errorf("invalid naming.short_name_pattern: %w", err)
		}
	}

	return nil
}

// LoadEnv loads environment variables from a .env file when one exists.
// Missing files are fine; real deployments configure through the environment.
func LoadEnv() {
	_ = godotenv.Load()
}

// ConfigureLoggingFromConfig builds the shared logrus logger from the Config.
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
