package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		BaseURL     string `yaml:"base_url" env:"SERVER_BASE_URL"`
	} `yaml:"server"`

	Store struct {
		// Driver selects the persistence backend: "snapshot" keeps the full
		// state in memory and flushes it to a JSON file after every mutation;
		// "postgres" backs the same repositories with a database.
		Driver       string `yaml:"driver" env:"STORE_DRIVER"`
		SnapshotPath string `yaml:"snapshot_path" env:"STORE_SNAPSHOT_PATH"`

		Postgres struct {
			Host     string `yaml:"host" env:"DB_HOST"`
			Port     string `yaml:"port" env:"DB_PORT"`
			User     string `yaml:"user" env:"DB_USER"`
			Password string `yaml:"password" env:"DB_PASSWORD"`
			DBName   string `yaml:"dbname" env:"DB_NAME"`
			SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE"`
			MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
		} `yaml:"postgres"`
	} `yaml:"store"`

	JWT struct {
		Secret          string `yaml:"secret" env:"JWT_SECRET"`
		TokenExpiration string `yaml:"token_expiration" env:"JWT_TOKEN_EXPIRATION"`
		Issuer          string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Comments struct {
		// ReplyPolicy decides who may reply to a comment: "owner" limits
		// replies to the action owner (and admins), "any" allows every
		// authenticated user.
		ReplyPolicy string `yaml:"reply_policy" env:"COMMENTS_REPLY_POLICY"`
	} `yaml:"comments"`

	Recommender struct {
		APIKey  string `yaml:"api_key" env:"RECOMMENDER_API_KEY"`
		BaseURL string `yaml:"base_url" env:"RECOMMENDER_BASE_URL"`
		Model   string `yaml:"model" env:"RECOMMENDER_MODEL"`
		Timeout string `yaml:"timeout" env:"RECOMMENDER_TIMEOUT"`
	} `yaml:"recommender"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The config file is optional; env vars can carry everything
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.BaseURL = "http://localhost:8080"

	config.Store.Driver = "snapshot"
	config.Store.SnapshotPath = "data/snapshot.json"
	config.Store.Postgres.Host = "localhost"
	config.Store.Postgres.Port = "5432"
	config.Store.Postgres.User = "postgres"
	config.Store.Postgres.Password = "postgres"
	config.Store.Postgres.DBName = "stellact"
	config.Store.Postgres.SSLMode = "disable"
	config.Store.Postgres.MaxConns = 20

	// 7 days, no refresh mechanism; expiry requires re-login
	config.JWT.TokenExpiration = "168h"
	config.JWT.Issuer = "stellact.app"

	config.Comments.ReplyPolicy = "owner"

	config.Recommender.BaseURL = "https://api.openai.com/v1"
	config.Recommender.Model = "gpt-4o-mini"
	config.Recommender.Timeout = "10s"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Store.Driver {
	case "snapshot", "postgres":
	default:
		return fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	switch config.Comments.ReplyPolicy {
	case "owner", "any":
	default:
		return fmt.Errorf("unknown reply policy %q", config.Comments.ReplyPolicy)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if _, err := time.ParseDuration(config.JWT.TokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT token expiration format: %w", err)
	}
	if _, err := time.ParseDuration(config.Recommender.Timeout); err != nil {
		return fmt.Errorf("invalid recommender timeout format: %w", err)
	}

	return nil
}
