package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/unicen/alumni-registry/internal/pkg/logger"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`
		FrontendURL string `yaml:"frontend_url" env:"FRONTEND_URL"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret          string `yaml:"secret" env:"JWT_SECRET"`
		TokenExpiration string `yaml:"token_expiration" env:"JWT_TOKEN_EXPIRATION"`
		ResetExpiration string `yaml:"reset_expiration" env:"JWT_RESET_EXPIRATION"`
		Issuer          string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USER"`
		Password  string `yaml:"password" env:"SMTP_PASS"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_SECURE"`
	} `yaml:"smtp"`

	Geocoder struct {
		BaseURL   string `yaml:"base_url" env:"GEOCODER_BASE_URL"`
		UserAgent string `yaml:"user_agent" env:"GEOCODER_USER_AGENT"`
		Timeout   string `yaml:"timeout" env:"GEOCODER_TIMEOUT"`
	} `yaml:"geocoder"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from an optional .env file, an optional
// yaml file, and environment variable overrides, in that order.
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is fine; variables may come from the real environment
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	warnMissingSecrets(config)

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.FrontendURL = "http://localhost:5173"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "alumni_registry"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.Secret = "change-me-in-production"
	config.JWT.TokenExpiration = "24h"
	config.JWT.ResetExpiration = "1h"
	config.JWT.Issuer = "alumni.unicen.edu.ar"

	config.SMTP.Host = "smtp.gmail.com"
	config.SMTP.Port = 587
	config.SMTP.FromName = "UNICEN Alumni Network"
	config.SMTP.FromEmail = "graduados@unicen.edu.ar"

	config.Geocoder.BaseURL = "https://nominatim.openstreetmap.org"
	config.Geocoder.UserAgent = "unicen-alumni-registry/1.0"
	config.Geocoder.Timeout = "5s"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is usable. Only structural
// problems abort startup; missing secrets are warned about instead.
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if _, err := time.ParseDuration(config.JWT.TokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.JWT.ResetExpiration); err != nil {
		return fmt.Errorf("invalid JWT reset expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Geocoder.Timeout); err != nil {
		return fmt.Errorf("invalid geocoder timeout format: %w", err)
	}

	return nil
}

// warnMissingSecrets logs recommended settings that were left at their
// fallback values. The process keeps running either way.
func warnMissingSecrets(config *Config) {
	if config.JWT.Secret == "change-me-in-production" {
		logger.Warn().Msg("JWT_SECRET not configured, using insecure default")
	}
	if config.SMTP.Username == "" || config.SMTP.Password == "" {
		logger.Warn().Msg("SMTP credentials not configured, emails will be logged instead of sent")
	}
}

// GeocoderTimeout returns the parsed geocoder request timeout
func (c *Config) GeocoderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Geocoder.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// TokenTTL returns the parsed bearer token lifetime
func (c *Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.JWT.TokenExpiration)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// ResetTokenTTL returns the parsed password reset token lifetime
func (c *Config) ResetTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.JWT.ResetExpiration)
	if err != nil {
		return time.Hour
	}
	return d
}

// GetPostgresConnectionString returns the postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
