package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Session  SessionConfig  `mapstructure:"session"  validate:"required"`
	Scoring  ScoringConfig  `mapstructure:"scoring"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig contains all database-related configuration settings.
// For the sqlite driver URL is a file path or a "file:" DSN.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL    string `mapstructure:"url"    validate:"required"`
}

// Supported answer session backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// SessionConfig controls where in-progress answer sessions are kept.
type SessionConfig struct {
	Backend    string `mapstructure:"backend"     validate:"required,oneof=memory redis"`
	RedisURL   string `mapstructure:"redis_url"   validate:"required_if=Backend redis,omitempty,url"`
	TTLMinutes int    `mapstructure:"ttl_minutes" validate:"required,gt=0"`
}

// ScoringConfig overrides the scoring engine and classifier defaults.
// Unset numeric fields are nil and keep the engine defaults; an explicit 0
// is applied as given.
type ScoringConfig struct {
	BaselineCategoryID string   `mapstructure:"baseline_category_id" validate:"required"`
	HighThreshold      *float64 `mapstructure:"high_threshold"       validate:"omitempty,gte=0,lte=100"`
	LowThreshold       *float64 `mapstructure:"low_threshold"        validate:"omitempty,gte=0,lte=100"`
	BaselineThreshold  *float64 `mapstructure:"baseline_threshold"   validate:"omitempty,gte=0,lte=100"`
	ScaleFactor        *float64 `mapstructure:"scale_factor"         validate:"omitempty,gt=0"`
	MinOptionScore     *int     `mapstructure:"min_option_score"     validate:"omitempty,gte=0"`
	MaxOptionScore     *int     `mapstructure:"max_option_score"     validate:"omitempty,gte=0"`
}
