// Package config loads CLI defaults from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds settings shared by the CLI commands. Flags override it.
type Config struct {
	JSONDriver string // encoding/json or go-json
	LogLevel   string
	LogFormat  string
	DBPath     string // checkpoint database
	MaxDepth   int
	MaxBytes   int64
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		JSONDriver: getEnv("TASKMAP_JSON_DRIVER", "encoding/json"),
		LogLevel:   getEnv("TASKMAP_LOG_LEVEL", "warn"),
		LogFormat:  getEnv("TASKMAP_LOG_FORMAT", "text"),
		DBPath:     getEnv("TASKMAP_DB", "taskmap.db"),
		MaxDepth:   getEnvInt("TASKMAP_MAX_DEPTH", 0),
		MaxBytes:   int64(getEnvInt("TASKMAP_MAX_BYTES", 0)),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
