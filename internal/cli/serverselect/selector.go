package serverselect

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog"

	"github.com/gestione-dev/gestione/internal/cli/config"
	"github.com/gestione-dev/gestione/internal/cli/userconfig"
)

// ErrChoiceRequired is returned when several servers are configured, none is
// selected and no terminal is available to ask.
var ErrChoiceRequired = errors.New("several servers configured: pass --server or run 'gestione select-server'")

// ResolveServer determines which server to use:
// 1. the server named by serverAlias
// 2. the server selected in the user config
// 3. the only configured server
// 4. an interactive choice, when interactive is set
func ResolveServer(projectConfig *config.Config, serverAlias string, interactive bool, logger zerolog.Logger) (*config.Server, error) {
	if serverAlias != "" {
		return projectConfig.GetServerByAlias(serverAlias)
	}

	selectedURL, err := userconfig.GetSelectedServer()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	if selectedURL != "" {
		server, err := projectConfig.GetServerByURL(selectedURL)
		if err == nil {
			return server, nil
		}
		// Selected server no longer exists in the project config
		logger.Debug().Str("url", selectedURL).Msg("Clearing stale server selection")
		_ = userconfig.SetSelectedServer("")
	}

	if len(projectConfig.Servers) == 1 {
		return &projectConfig.Servers[0], nil
	}

	if !interactive {
		return nil, ErrChoiceRequired
	}

	server, err := PromptServerSelection(projectConfig)
	if err != nil {
		return nil, err
	}

	if err := userconfig.SetSelectedServer(server.URL); err != nil {
		logger.Warn().Err(err).Msg("Failed to save selected server")
	}

	return server, nil
}

// PromptServerSelection shows an interactive prompt for the user to select a server
func PromptServerSelection(projectConfig *config.Config) (*config.Server, error) {
	if len(projectConfig.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in %s", config.ConfigFileName)
	}

	type serverOption struct {
		Label  string
		Server *config.Server
	}

	options := make([]serverOption, len(projectConfig.Servers))
	for i := range projectConfig.Servers {
		server := &projectConfig.Servers[i]
		options[i] = serverOption{
			Label:  fmt.Sprintf("%s (%s)", server.Alias, server.URL),
			Server: server,
		}
	}

	prompt := promptui.Select{
		Label: "Select a server",
		Items: options,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "> {{ .Label | cyan }}",
			Inactive: "  {{ .Label }}",
			Selected: "{{ .Label | green }}",
		},
		Size: 10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server selection cancelled: %w", err)
	}

	return options[index].Server, nil
}
