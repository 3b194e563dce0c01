package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values for optional configuration parameters.
const (
	DefaultLogLevel          = "info"
	DefaultLogJSON           = false
	DefaultDBPath            = "storage.db"
	DefaultAlbumLatency      = 500 * time.Millisecond
	DefaultTranslatorModel   = "gemini-2.0-flash"
	DefaultTranslatorTimeout = 30 * time.Second
)

// Load loads and validates configuration from, in order of precedence:
// BOT_* environment variables, config.yaml, and built-in defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing config file is fine, everything can come from env.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("album.latency", DefaultAlbumLatency)

	v.SetDefault("translator.model", DefaultTranslatorModel)
	v.SetDefault("translator.timeout", DefaultTranslatorTimeout)
}
