package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is used when no base URL is configured
const DefaultBaseURL = "http://127.0.0.1:8000/api"

// Environment variables consulted for the API base URL, in priority order
var baseURLEnvKeys = []string{
	"CHARACTER_CHAT_API_BASE_URL",
	"API_BASE_URL",
	"VITE_API_BASE_URL",
}

// Config holds all application configuration
type Config struct {
	// Backend settings
	BaseURL        string
	RequestTimeout time.Duration

	// Logging settings
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Display settings
	Style string
	Plain bool
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		// Zero disables the client-side timeout
		RequestTimeout: 0,

		LogLevel: "info",
		LogFile:  "",
		LogJSON:  false,

		Style: "auto",
		Plain: false,
	}
}

// LoadEnv reads an optional dotenv file and applies environment overrides.
// A missing file is not an error.
func (c *Config) LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !isNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}

	for _, key := range baseURLEnvKeys {
		if v := strings.TrimSpace(GetEnv(key)); v != "" {
			c.BaseURL = v
			break
		}
	}
	if v := strings.TrimSpace(GetEnv("CHARACTER_CHAT_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(GetEnv("CHARACTER_CHAT_LOG_FILE")); v != "" {
		c.LogFile = expandHome(v)
	}
	if v := strings.TrimSpace(GetEnv("CHARACTER_CHAT_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CHARACTER_CHAT_TIMEOUT %q: %w", v, err)
		}
		c.RequestTimeout = d
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("API base URL cannot be empty")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API base URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("API base URL must include a host")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout cannot be negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error")
	}
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// expandHome expands the ~ in file paths to the user's home directory
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir := getHomeDir()
		return homeDir + path[1:]
	}
	return path
}

// getHomeDir returns the user's home directory
func getHomeDir() string {
	if home := GetEnv("HOME"); home != "" {
		return home
	}
	// Fallback for Windows
	if home := GetEnv("USERPROFILE"); home != "" {
		return home
	}
	return "."
}

// GetEnv is a wrapper around os.Getenv for easier testing
var GetEnv = func(key string) string {
	// Will be replaced with os.Getenv in main
	return ""
}
