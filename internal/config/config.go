// Package config loads command settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings shared by cmd/inkworker and cmd/inkdemo.
// Flags override the values loaded here.
type Config struct {
	// Addr is the listen address of the worker.
	Addr string
	// Workers is the worker pool size; 0 selects GOMAXPROCS.
	Workers int
	// QueueSize is the per-worker request queue capacity.
	QueueSize int
	// Advertise announces the worker over mDNS.
	Advertise bool
	// Instance is the mDNS instance name; empty uses the host name.
	Instance         string
	HandshakeTimeout time.Duration
	RequestTimeout   time.Duration
	LogLevel         slog.Level
}

// Load reads INK_* environment variables, falling back to defaults for
// unset or malformed values.
func Load() *Config {
	return &Config{
		Addr:             getEnv("INK_ADDR", ":8765"),
		Workers:          getEnvAsInt("INK_WORKERS", 0),
		QueueSize:        getEnvAsInt("INK_QUEUE_SIZE", 0),
		Advertise:        getEnvAsBool("INK_ADVERTISE", false),
		Instance:         getEnv("INK_INSTANCE", ""),
		HandshakeTimeout: getEnvAsDuration("INK_HANDSHAKE_TIMEOUT", 5*time.Second),
		RequestTimeout:   getEnvAsDuration("INK_REQUEST_TIMEOUT", 10*time.Second),
		LogLevel:         getEnvAsLevel("INK_LOG_LEVEL", slog.LevelInfo),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}

func getEnvAsLevel(key string, defaultVal slog.Level) slog.Level {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultVal
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return defaultVal
	}
	return level
}
