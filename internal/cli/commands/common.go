package commands

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gestione-dev/gestione/internal/cli/config"
	"github.com/gestione-dev/gestione/internal/cli/serverselect"
	envconfig "github.com/gestione-dev/gestione/internal/config"
)

// envServerAlias names the server given through GESTIONE_API_URL
const envServerAlias = "env"

// getSelectedServer returns the server to talk to and the invoice status path.
// GESTIONE_API_URL wins over gestione.yaml.
func getSelectedServer(cfg *envconfig.Config, serverAlias string, interactive bool, log zerolog.Logger) (*config.Server, string, error) {
	projectConfig, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w\nRun 'gestione init' to create a configuration file", err)
	}

	statusesPath := envconfig.DefaultStatusesPath
	if projectConfig.StatusesPath != "" {
		statusesPath = projectConfig.StatusesPath
	}
	if cfg.API.StatusesPath != "" {
		statusesPath = cfg.API.StatusesPath
	}

	if cfg.API.URL != "" && serverAlias == "" {
		if err := config.ValidateURL(cfg.API.URL); err != nil {
			return nil, "", err
		}
		return &config.Server{Alias: envServerAlias, URL: cfg.API.URL}, statusesPath, nil
	}

	server, err := serverselect.ResolveServer(projectConfig, serverAlias, interactive, log)
	if err != nil {
		return nil, "", err
	}

	if server.URL == "" {
		return nil, "", fmt.Errorf("server URL is empty. Please edit %s and add a valid URL", config.ConfigFileName)
	}
	if err := config.ValidateURL(server.URL); err != nil {
		return nil, "", err
	}

	return server, statusesPath, nil
}
