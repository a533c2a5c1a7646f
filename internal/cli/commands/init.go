package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gestione-dev/gestione/internal/cli/config"
)

type initOptions struct {
	alias string
}

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init <server-url>",
		Short: "Add a backend server to gestione.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.alias, "alias", "", "Server alias (defaults to production, then server-N)")

	return cmd
}

func runInit(out io.Writer, serverURL string, opts *initOptions) error {
	serverURL = strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if err := config.ValidateURL(serverURL); err != nil {
		return err
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, config.ConfigFileName)

	var cfg *config.Config
	isNewConfig := false

	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		fmt.Fprintf(out, "Found existing %s\n", config.ConfigFileName)
	} else {
		cfg = &config.Config{Servers: []config.Server{}}
		isNewConfig = true
	}

	if _, err := cfg.GetServerByURL(serverURL); err == nil {
		fmt.Fprintf(out, "Server %s already exists in %s\n", serverURL, config.ConfigFileName)
		return nil
	}

	alias := opts.alias
	if alias == "" {
		if len(cfg.Servers) == 0 {
			alias = "production"
		} else {
			alias = fmt.Sprintf("server-%d", len(cfg.Servers)+1)
		}
	}
	if _, err := cfg.GetServerByAlias(alias); err == nil {
		return fmt.Errorf("alias '%s' is already used in %s", alias, config.ConfigFileName)
	}

	cfg.Servers = append(cfg.Servers, config.Server{Alias: alias, URL: serverURL})

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	if isNewConfig {
		fmt.Fprintf(out, "✓ Created ./%s with server %s (%s)\n", config.ConfigFileName, serverURL, alias)
	} else {
		fmt.Fprintf(out, "✓ Added server %s (%s) to ./%s\n", serverURL, alias, config.ConfigFileName)
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Run 'gestione register' if you do not have an account yet")
	fmt.Fprintln(out, "  2. Run 'gestione login' to authenticate")

	return nil
}
