package cmd

import (
	"fmt"

	"github.com/spf13/viper"
)

// DatabaseConfig locates the SQLite file holding the primary rows.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// FeedsConfig holds the price feed credentials and optional endpoint
// overrides.
type FeedsConfig struct {
	FXAPIKey        string `mapstructure:"fx_api_key"`
	FXBaseURL       string `mapstructure:"fx_base_url"`
	CryptoBaseURL   string `mapstructure:"crypto_base_url"`
	SecurityAPIKey  string `mapstructure:"security_api_key"`
	SecurityBaseURL string `mapstructure:"security_base_url"`
}

// Config is the application configuration, loaded from config.yaml with
// CASHFOLIO_* environment overrides.
type Config struct {
	BaseCurrency string         `mapstructure:"base_currency"`
	Database     DatabaseConfig `mapstructure:"database"`
	Feeds        FeedsConfig    `mapstructure:"feeds"`
}

// LoadConfig loads the configuration from the given file path, defaulting to
// "config.yaml" in the working directory.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetDefault("base_currency", "USD")
	v.SetDefault("database.path", "cashfolio.db")

	v.SetEnvPrefix("CASHFOLIO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
