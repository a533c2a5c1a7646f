package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	envconfig "github.com/gestione-dev/gestione/internal/config"
)

const ConfigFileName = "gestione.yaml"

// ErrNotFound is returned when no gestione.yaml exists up the directory tree
var ErrNotFound = errors.New(ConfigFileName + " not found")

// Server is a backend the CLI can talk to
type Server struct {
	Alias string `yaml:"alias"`
	URL   string `yaml:"url"`
}

// Config represents the project configuration file
type Config struct {
	Servers []Server `yaml:"servers"`

	// StatusesPath overrides the invoice status endpoint
	StatusesPath string `yaml:"statuses_path,omitempty"`
}

// LocalServer is used when no project file exists
func LocalServer() Server {
	return Server{Alias: "local", URL: envconfig.DefaultAPIURL}
}

// DefaultConfig returns a configuration with a single server
func DefaultConfig(serverURL string) *Config {
	return &Config{
		Servers: []Server{
			{Alias: "default", URL: strings.TrimRight(serverURL, "/")},
		},
	}
}

// ValidateURL checks that raw is an absolute http(s) URL
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server URL %q: missing host", raw)
	}
	return nil
}

// FindConfigFile searches for gestione.yaml in the current directory and its parents
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, currentDir)
}

// Load reads the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	for i := range cfg.Servers {
		cfg.Servers[i].URL = strings.TrimRight(cfg.Servers[i].URL, "/")
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads gestione.yaml from the current directory or a parent.
// Without a project file it falls back to the local server.
func LoadFromCurrentDir() (*Config, error) {
	configPath, err := FindConfigFile()
	if errors.Is(err, ErrNotFound) {
		return &Config{Servers: []Server{LocalServer()}}, nil
	}
	if err != nil {
		return nil, err
	}

	return Load(configPath)
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetServerByAlias returns a server by its alias
func (c *Config) GetServerByAlias(alias string) (*Server, error) {
	for i := range c.Servers {
		if c.Servers[i].Alias == alias {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with alias '%s' not found", alias)
}

// GetServerByURL returns a server by its URL
func (c *Config) GetServerByURL(serverURL string) (*Server, error) {
	serverURL = strings.TrimRight(serverURL, "/")
	for i := range c.Servers {
		if c.Servers[i].URL == serverURL {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with URL '%s' not found", serverURL)
}

// GetDefaultServer returns the first server in the list
func (c *Config) GetDefaultServer() (*Server, error) {
	if len(c.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in %s", ConfigFileName)
	}
	return &c.Servers[0], nil
}
