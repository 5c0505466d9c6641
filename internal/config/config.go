package config

import (
	"fmt"
	"os"
	"strings"
)

// Config aggregates the service configuration.
type Config struct {
	Server ServerConfig
}

// ServerConfig describes the HTTP listener and the externally visible root.
type ServerConfig struct {
	Addr string
	// BaseURL is the service root used to derive person hrefs, without a
	// trailing slash, e.g. "http://localhost:8080".
	BaseURL string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server}, nil
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	addr := port
	if !strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		addr = ":" + port
	}
	if strings.Contains(addr, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	baseURL := strings.TrimSuffix(strings.TrimSpace(os.Getenv("BASE_URL")), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL(addr)
	}

	return ServerConfig{Addr: addr, BaseURL: baseURL}, nil
}

// defaultBaseURL guesses a local root from the listen address so hrefs stay
// resolvable when BASE_URL is not set.
func defaultBaseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
