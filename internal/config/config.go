// Package config provides application configuration loading and management.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// defaultSecretKey is only acceptable in development; Validate rejects it
// in production.
const defaultSecretKey = "aW5rd2VsbC1kZXZlbG9wbWVudC1zZWNyZXQta2V5ISE="

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port      string `mapstructure:"PORT"`
	SecretKey string `mapstructure:"SECRET_KEY"`

	// DBDSN is either a path to a local SQLite file (the default) or a
	// PostgreSQL connection string.
	DBDSN string `mapstructure:"DB_DSN"`

	// RedisURL is optional; when empty or unreachable the login/register
	// rate limiter fails open.
	RedisURL string `mapstructure:"REDIS_URL"`

	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailAddress  string `mapstructure:"MAIL_ADDRESS"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`

	Env string `mapstructure:"APP_ENV"`
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
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Println("Config file not found; using environment variables and defaults")
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("SECRET_KEY", defaultSecretKey)
	viper.SetDefault("DB_DSN", "blog.db")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("MAIL_HOST", "smtp.gmail.com")
	viper.SetDefault("MAIL_PORT", 587)
	viper.SetDefault("MAIL_ADDRESS", "")
	viper.SetDefault("MAIL_PASSWORD", "")
	viper.SetDefault("APP_ENV", "development")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
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
	if c.DBDSN == "" {
		return errors.New("DB_DSN is required")
	}

	// The session cookie is encrypted with this key, so it must decode
	// to exactly 32 bytes.
	raw, err := base64.StdEncoding.DecodeString(c.SecretKey)
	if err != nil {
		return fmt.Errorf("SECRET_KEY must be base64 encoded: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("SECRET_KEY must decode to 32 bytes, got %d", len(raw))
	}

	if c.IsProduction() {
		if c.SecretKey == defaultSecretKey {
			return errors.New("SECRET_KEY must be changed from the default value in production")
		}
		if c.MailAddress == "" || c.MailPassword == "" {
			log.Println("WARNING: MAIL_ADDRESS/MAIL_PASSWORD are not set; the contact form will fail")
		}
	} else if c.SecretKey == defaultSecretKey {
		log.Println("WARNING: SECRET_KEY is the built-in development key. Set a real one for production.")
	}

	return nil
}

// IsProduction reports whether the app runs with a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
