package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends selectable through STORAGE_BACKEND
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendBadger   = "badger"
	BackendMemory   = "memory"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Badger   BadgerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// StorageConfig selects the slot backend
type StorageConfig struct {
	Backend    string
	SQLitePath string
	Timeout    time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// BadgerConfig holds embedded BadgerDB configuration
type BadgerConfig struct {
	Path string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     getEnv("SERVER_PORT", "8080"),
			Env:      getEnv("SERVER_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", ""),
		},
		Storage: StorageConfig{
			Backend:    strings.ToLower(getEnv("STORAGE_BACKEND", BackendSQLite)),
			SQLitePath: getEnv("SQLITE_PATH", "token-research.db"),
			Timeout:    getEnvAsDuration("STORAGE_TIMEOUT", 2*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "token_research"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Badger: BadgerConfig{
			Path: getEnv("BADGER_PATH", ".token-research"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
