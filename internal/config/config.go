// Package config provides environment-driven configuration for go-sumo commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default configuration values.
const (
	DefaultSumoIP         = "192.168.2.1"
	DefaultD2CPort        = 43210
	DefaultConnectTimeout = 5 * time.Second
	DefaultArtifactsDir   = "./artifacts"
)

// Config holds all configuration for the go-sumo binaries.
// Flag parsing is done per-command; this struct is data only.
type Config struct {
	// SumoIP is the robot address used when connect_robot omits one.
	SumoIP string

	// D2CPort is the local UDP port announced during discovery
	// (device-to-controller traffic arrives here). 0 picks an
	// ephemeral port.
	D2CPort int

	// ConnectTimeout bounds discovery plus first contact.
	ConnectTimeout time.Duration

	// ArtifactsDir is where camera frames are saved.
	ArtifactsDir string

	// DashboardPort enables the web dashboard when non-empty.
	DashboardPort string

	// LogLevel for the slog wrapper: debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from a .env file (if present) and the
// environment. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, &ConfigError{Field: ".env", Message: fmt.Sprintf("failed to load .env: %v", err)}
	}

	cfg := &Config{
		SumoIP:         getEnv("SUMO_IP", DefaultSumoIP),
		ConnectTimeout: DefaultConnectTimeout,
		ArtifactsDir:   getEnv("SUMO_ARTIFACTS_DIR", DefaultArtifactsDir),
		DashboardPort:  getEnv("SUMO_DASHBOARD_PORT", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	port, err := strconv.Atoi(getEnv("SUMO_D2C_PORT", strconv.Itoa(DefaultD2CPort)))
	if err != nil || port < 0 || port > 65535 {
		return nil, &ConfigError{Field: "SUMO_D2C_PORT", Message: "must be a port number between 0 and 65535"}
	}
	cfg.D2CPort = port

	if raw := os.Getenv("SUMO_CONNECT_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, &ConfigError{Field: "SUMO_CONNECT_TIMEOUT", Message: "must be a positive duration such as 5s"}
		}
		cfg.ConnectTimeout = d
	}

	return cfg, nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

// getEnv returns the environment value for key, or def when unset or empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
