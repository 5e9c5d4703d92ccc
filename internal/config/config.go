// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	DocDB  DocDBConfig
	Remote RemoteConfig
	Log    LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host    string
	Port    int
	GinMode string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig holds blob store configuration. EncryptionKey is an optional
// base64-encoded AES-256 key for stored blobs; when empty the key is derived
// from the vendor client credentials.
type StoreConfig struct {
	Type          string
	Host          string
	Port          string
	Password      string
	DB            int
	EncryptionKey string
}

// DocDBConfig holds document database configuration.
type DocDBConfig struct {
	Type     string
	URI      string
	Database string
}

// RemoteConfig holds the remote document store / AI vendor configuration.
// The vendor serves uploads and OAuth from dedicated hosts, so each base
// URL is configured separately.
type RemoteConfig struct {
	APIBaseURL    string
	UploadBaseURL string
	OAuthBaseURL  string
	ClientID      string
	ClientSecret  string
	Timeout       time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvAsInt("SERVER_PORT", 8080),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Store: StoreConfig{
			Type:          getEnv("STORE_TYPE", "redis"),
			Host:          getEnv("REDIS_HOST", "localhost"),
			Port:          getEnv("REDIS_PORT", "6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvAsInt("REDIS_DB", 0),
			EncryptionKey: getEnv("STORE_ENCRYPTION_KEY", ""),
		},
		DocDB: DocDBConfig{
			Type:     getEnv("DOCDB_TYPE", "mongodb"),
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "askdoc"),
		},
		Remote: RemoteConfig{
			APIBaseURL:    getEnv("REMOTE_API_BASE_URL", "https://api.box.com/2.0"),
			UploadBaseURL: getEnv("REMOTE_UPLOAD_BASE_URL", "https://upload.box.com/api/2.0"),
			OAuthBaseURL:  getEnv("REMOTE_OAUTH_BASE_URL", "https://api.box.com/oauth2"),
			ClientID:      getEnv("REMOTE_CLIENT_ID", ""),
			ClientSecret:  getEnv("REMOTE_CLIENT_SECRET", ""),
			Timeout:       time.Duration(getEnvAsInt("REMOTE_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.Remote.ClientID == "" || cfg.Remote.ClientSecret == "" {
		return nil, fmt.Errorf("REMOTE_CLIENT_ID and REMOTE_CLIENT_SECRET are required")
	}

	return cfg, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
