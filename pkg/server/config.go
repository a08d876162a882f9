package server

import (
	"os"
	"strconv"
	"time"
)

// ServerConfig holds HTTP server settings, loaded from environment
// variables with defaults.
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxWorkers   int
}

func LoadConfig() *ServerConfig {
	return &ServerConfig{
		Address:      getEnv("SERVER_ADDRESS", ":8080"),
		ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		MaxWorkers:   getInt("JOB_MAX_WORKERS", 4),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
