package api

import (
	"os"
	"strconv"
	"strings"
)

// ServerConfig holds all configuration for the API server.
type ServerConfig struct {
	Host              string
	Port              int
	MaxConcurrentJobs int
	APIKey            string
	CORSOrigins       []string
	ReadTimeout       int
	WriteTimeout      int
	IdleTimeout       int
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:              "0.0.0.0",
		Port:              8080,
		MaxConcurrentJobs: 5,
		ReadTimeout:       30,
		WriteTimeout:      120,
		IdleTimeout:       120,
	}
}

// Address returns the full address string (host:port).
func (c *ServerConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// LoadFromEnv loads configuration from environment variables, which take
// precedence over existing values.
func (c *ServerConfig) LoadFromEnv() {
	if host := os.Getenv("SCROLLREVEAL_API_HOST"); host != "" {
		c.Host = host
	}
	if port := os.Getenv("SCROLLREVEAL_API_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			c.Port = p
		}
	}
	if maxJobs := os.Getenv("SCROLLREVEAL_API_MAX_CONCURRENT_JOBS"); maxJobs != "" {
		if m, err := strconv.Atoi(maxJobs); err == nil && m > 0 {
			c.MaxConcurrentJobs = m
		}
	}
	if apiKey := os.Getenv("SCROLLREVEAL_API_KEY"); apiKey != "" {
		c.APIKey = apiKey
	}
	if origins := os.Getenv("SCROLLREVEAL_API_CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = strings.Split(origins, ",")
		for i, origin := range c.CORSOrigins {
			c.CORSOrigins[i] = strings.TrimSpace(origin)
		}
	}
}

// Validate checks that the configuration is usable.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return APIError{Code: 500, Message: "invalid port", Details: "port must be between 1 and 65535"}
	}
	if c.MaxConcurrentJobs < 1 {
		return APIError{Code: 500, Message: "invalid max concurrent jobs", Details: "must be at least 1"}
	}
	return nil
}

// HasAuth returns true if API key authentication is enabled.
func (c *ServerConfig) HasAuth() bool { return c.APIKey != "" }

// HasCORS returns true if CORS is configured.
func (c *ServerConfig) HasCORS() bool { return len(c.CORSOrigins) > 0 }
