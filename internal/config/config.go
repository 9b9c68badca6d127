package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Circulation CirculationConfig `mapstructure:"circulation"`
	Health      HealthConfig      `mapstructure:"health"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	RecalculateSpec string `mapstructure:"SCHEDULER_RECALCULATE_SPEC"`
	Timezone        string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// CirculationConfig carries the default circulation tunables. They seed the
// parameter store and serve as fallbacks when the parameters row cannot be
// read.
type CirculationConfig struct {
	LateFeePerDay        string `mapstructure:"LATE_FEE_PER_DAY"`
	ReservationFeePerDay string `mapstructure:"RESERVATION_FEE_PER_DAY"`
	LoanDurationDays     int    `mapstructure:"LOAN_DURATION_DAYS"`
	ActiveLoanQuota      int    `mapstructure:"ACTIVE_LOAN_QUOTA"`
	ParameterCacheTTL    string `mapstructure:"PARAMETER_CACHE_TTL"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("LATE_FEE_PER_DAY", "1000.00")
	viper.SetDefault("RESERVATION_FEE_PER_DAY", "1000.00")
	viper.SetDefault("LOAN_DURATION_DAYS", 14)
	viper.SetDefault("ACTIVE_LOAN_QUOTA", 3)
	viper.SetDefault("PARAMETER_CACHE_TTL", "5m")
	viper.SetDefault("SCHEDULER_RECALCULATE_SPEC", "0 0 0 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "UTC")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Circulation.LoanDurationDays <= 0 {
		return fmt.Errorf("LOAN_DURATION_DAYS must be greater than 0")
	}

	if c.Circulation.ActiveLoanQuota <= 0 {
		return fmt.Errorf("ACTIVE_LOAN_QUOTA must be greater than 0")
	}

	if _, err := decimal.NewFromString(c.Circulation.LateFeePerDay); err != nil {
		return fmt.Errorf("LATE_FEE_PER_DAY must be a valid decimal: %w", err)
	}

	if _, err := decimal.NewFromString(c.Circulation.ReservationFeePerDay); err != nil {
		return fmt.Errorf("RESERVATION_FEE_PER_DAY must be a valid decimal: %w", err)
	}

	if _, err := time.ParseDuration(c.Circulation.ParameterCacheTTL); err != nil {
		return fmt.Errorf("PARAMETER_CACHE_TTL must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetLateFeePerDay returns the default late fee as decimal
func (c *Config) GetLateFeePerDay() decimal.Decimal {
	fee, _ := decimal.NewFromString(c.Circulation.LateFeePerDay)
	return fee
}

// GetReservationFeePerDay returns the default reservation fee as decimal
func (c *Config) GetReservationFeePerDay() decimal.Decimal {
	fee, _ := decimal.NewFromString(c.Circulation.ReservationFeePerDay)
	return fee
}

// GetParameterCacheTTL returns the parameter cache TTL as duration
func (c *Config) GetParameterCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Circulation.ParameterCacheTTL)
	return ttl
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
