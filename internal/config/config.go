// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Transport selects how the client talks to the narrator.
const (
	TransportHTTP = "http"
	TransportWS   = "ws"
)

// Config holds all application configuration, shared by the narrator dev
// server and the terminal client.
type Config struct {
	Port           string
	DBPath         string // empty = in-memory sessions
	SessionTTL     time.Duration
	AllowedOrigins []string

	NarratorURL    string // base URL the client submits turns to
	Transport      string // http or ws
	RequestTimeout time.Duration
	RevealInterval time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBPath:         getEnv("DB_PATH", "./data/aidventure.db"),
		SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		NarratorURL:    getEnv("NARRATOR_URL", "http://localhost:8080"),
		Transport:      strings.ToLower(getEnv("TRANSPORT", TransportHTTP)),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		RevealInterval: getEnvDuration("REVEAL_INTERVAL", 18*time.Millisecond),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are sane.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.NarratorURL == "" {
		return fmt.Errorf("NARRATOR_URL cannot be empty")
	}
	if c.Transport != TransportHTTP && c.Transport != TransportWS {
		return fmt.Errorf("TRANSPORT must be %q or %q, got %q", TransportHTTP, TransportWS, c.Transport)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0")
	}
	if c.RevealInterval <= 0 {
		return fmt.Errorf("REVEAL_INTERVAL must be > 0")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	return nil
}

// TurnSocketURL derives the WebSocket turn endpoint from the narrator URL.
func (c *Config) TurnSocketURL() string {
	url := strings.TrimRight(c.NarratorURL, "/")
	url = strings.Replace(url, "https://", "wss://", 1)
	url = strings.Replace(url, "http://", "ws://", 1)
	return url + "/ws/turn"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		// Accept bare integers as seconds for .env files without units.
		if n, convErr := strconv.Atoi(strings.TrimSpace(value)); convErr == nil {
			return time.Duration(n) * time.Second
		}
		return fallback
	}
	return d
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
