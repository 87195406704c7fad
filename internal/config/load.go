package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "CONSTITUTION"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.url", "constitution.db")

	v.SetDefault("session.backend", SessionBackendMemory)
	v.SetDefault("session.ttl_minutes", 60)

	v.SetDefault("scoring.baseline_category_id", "pinghe")
}

// bindEnvs registers every key explicitly. AutomaticEnv alone does not make
// keys without a default visible to Unmarshal.
func bindEnvs(v *viper.Viper) {
	keys := []string{
		"server.port",
		"server.log_level",
		"database.driver",
		"database.url",
		"session.backend",
		"session.redis_url",
		"session.ttl_minutes",
		"scoring.baseline_category_id",
		"scoring.high_threshold",
		"scoring.low_threshold",
		"scoring.baseline_threshold",
		"scoring.scale_factor",
		"scoring.min_option_score",
		"scoring.max_option_score",
	}
	for _, key := range keys {
		// BindEnv only fails when called without a key
		_ = v.BindEnv(key)
	}
}
