// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration of the admin server and the reference store.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// StoreConfig describes the remote transaction store.
type StoreConfig struct {
	URL     string
	Timeout int // seconds
	// Port and Seed are only read by cmd/store.
	Port string
	Seed bool
}

// DatabaseConfig holds the store's database settings.
// Driver is "sqlite" or "postgres"; DSNOverride wins over the discrete fields.
type DatabaseConfig struct {
	Driver      string
	DSNOverride string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev         bool
	PageSize    int
	DefaultLang string
	LogLevel    string
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.DSNOverride != "" {
		return d.DSNOverride
	}
	if d.Driver == "sqlite" {
		return "marina.db"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// TimeoutDuration returns the store request timeout.
func (s StoreConfig) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// Level maps LOG_LEVEL to a slog level. Unknown values mean info.
func (a AppConfig) Level() slog.Level {
	switch strings.ToLower(a.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Store: StoreConfig{
			URL:     getEnv("STORE_URL", "http://localhost:8081"),
			Timeout: getEnvInt("STORE_TIMEOUT", 10),
			Port:    getEnv("STORE_PORT", "8081"),
			Seed:    getEnvBool("STORE_SEED", false),
		},
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "sqlite"),
			DSNOverride: getEnv("DB_DSN", ""),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "marina"),
			Password:    getEnv("DB_PASSWORD", "marina"),
			DBName:      getEnv("DB_NAME", "marina"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
		},
		App: AppConfig{
			Dev:         getEnvBool("DEV", false),
			PageSize:    getEnvInt("PAGE_SIZE", 20),
			DefaultLang: getEnv("DEFAULT_LANG", "fr"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
