package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultAPIURL is the backend origin used when nothing else is configured
	DefaultAPIURL = "http://localhost:5000"

	// DefaultRedirectDelay is how long a screen shows "session expired" before navigating to login
	DefaultRedirectDelay = 2000 * time.Millisecond

	// DefaultStatusesPath is the invoice status endpoint
	DefaultStatusesPath = "/api/statifattura"
)

// Token store backends
const (
	StoreKeyring = "keyring"
	StoreFile    = "file"
	StoreMemory  = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// API Configuration
	API APIConfig

	// Session Configuration
	Session SessionConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds backend connection settings
type APIConfig struct {
	URL          string // Overrides the server URL from gestione.yaml when set
	Timeout      time.Duration
	StatusesPath string
}

// SessionConfig holds token storage and navigation settings
type SessionConfig struct {
	Store         string // keyring, file, memory
	StorePath     string // SQLite file for the file store
	RedirectDelay time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	timeout, err := durationEnv("GESTIONE_HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	redirectDelay, err := durationEnv("GESTIONE_REDIRECT_DELAY", DefaultRedirectDelay)
	if err != nil {
		return nil, err
	}

	store := strings.ToLower(os.Getenv("GESTIONE_TOKEN_STORE"))
	switch store {
	case "":
		store = StoreKeyring
	case StoreKeyring, StoreFile, StoreMemory:
	default:
		return nil, fmt.Errorf("invalid GESTIONE_TOKEN_STORE %q, must be one of: keyring, file, memory", store)
	}

	statusesPath := os.Getenv("GESTIONE_STATUSES_PATH")

	// Logging configuration - quiet by default, the CLI prints its own output
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "warn"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "console"
	}

	return &Config{
		API: APIConfig{
			URL:          strings.TrimRight(os.Getenv("GESTIONE_API_URL"), "/"),
			Timeout:      timeout,
			StatusesPath: statusesPath,
		},
		Session: SessionConfig{
			Store:         store,
			StorePath:     os.Getenv("GESTIONE_STORE_PATH"),
			RedirectDelay: redirectDelay,
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}

// durationEnv parses a positive Go duration ("2s") or a bare number of
// milliseconds ("2000")
func durationEnv(name string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		var ms int64
		if _, scanErr := fmt.Sscanf(raw, "%d", &ms); scanErr != nil || fmt.Sprint(ms) != raw {
			return 0, fmt.Errorf("invalid %s %q: expected a duration like 2s or milliseconds", name, raw)
		}
		d = time.Duration(ms) * time.Millisecond
	}

	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be greater than zero", name, raw)
	}
	return d, nil
}
