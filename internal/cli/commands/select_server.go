package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gestione-dev/gestione/internal/cli/config"
	"github.com/gestione-dev/gestione/internal/cli/serverselect"
	"github.com/gestione-dev/gestione/internal/cli/userconfig"
)

// NewSelectServerCmd creates the select-server command
func NewSelectServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select-server [url-or-alias]",
		Short: "Select the server to use for commands",
		Long: `Select the server to use for commands.

If no param is provided, an interactive prompt will be shown.

Examples:
  $ gestione select-server                          # Interactive selection
  $ gestione select-server https://api.example.com  # Select by URL
  $ gestione select-server production               # Select by alias`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var urlOrAlias string
			if len(args) > 0 {
				urlOrAlias = args[0]
			}
			return runSelectServer(cmd.OutOrStdout(), urlOrAlias)
		},
	}

	return cmd
}

func runSelectServer(out io.Writer, urlOrAlias string) error {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return fmt.Errorf("failed to load config: %w\nRun 'gestione init' to create a configuration file", err)
	}

	var server *config.Server

	if urlOrAlias != "" {
		server, err = cfg.GetServerByURL(urlOrAlias)
		if err != nil {
			server, err = cfg.GetServerByAlias(urlOrAlias)
		}
		if err != nil {
			return fmt.Errorf("server with URL or alias '%s' not found", urlOrAlias)
		}
	} else {
		server, err = serverselect.PromptServerSelection(cfg)
		if err != nil {
			return err
		}
	}

	if err := userconfig.SetSelectedServer(server.URL); err != nil {
		return fmt.Errorf("failed to save selected server: %w", err)
	}

	fmt.Fprintf(out, "Selected server: %s (%s)\n", server.Alias, server.URL)
	return nil
}
