// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// InsecureDevSecret is the clearly-flagged fallback signing secret used
// only when JWT_SECRET is unset. Validate rejects it outside development.
const InsecureDevSecret = "development-secret-do-not-use-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port            string `mapstructure:"PORT"`
	DatabaseURL     string `mapstructure:"DATABASE_URL"`
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`
	RedisURL        string `mapstructure:"REDIS_URL"`
	AllowedOrigins  string `mapstructure:"ALLOWED_ORIGINS"`
	UploadDir       string `mapstructure:"UPLOAD_DIR"`
	Env             string `mapstructure:"APP_ENV"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Set default values for development
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("SESSION_TTL_HOURS", 168)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("APP_ENV", "development")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Env = strings.ToLower(strings.TrimSpace(config.Env))

	if config.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET not set, using default secret (insecure for production)")
		config.JWTSecret = InsecureDevSecret
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SessionTTLHours <= 0 {
		return errors.New("SESSION_TTL_HOURS must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	if isProduction {
		if c.JWTSecret == InsecureDevSecret || c.JWTSecret == "" {
			return errors.New("JWT_SECRET must be set to a real secret in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required in production; the in-memory store is development-only")
		}
	} else {
		if len(c.JWTSecret) < 32 {
			log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
		}
		if c.DatabaseURL == "" {
			log.Println("WARNING: DATABASE_URL not set, falling back to the in-memory store (data is lost on restart)")
		}
	}

	return nil
}

// SessionTTL returns the configured session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}
