package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gestione-dev/gestione/internal/cli/commands"
	"github.com/gestione-dev/gestione/internal/config"
	"github.com/gestione-dev/gestione/internal/logger"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the command tree; build wires each command to its server
func NewRootCmd(build commands.Builder) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gestione",
		Short: "Gestione - clients, addresses and invoices from the terminal",
		Long: `Gestione CLI - Manage clients, addresses and invoices of your business
account from the command line.

Sign in with 'gestione login'; the session token is kept in the system keyring
(or the store chosen with GESTIONE_TOKEN_STORE) until it expires or you log out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			level := cfg.Logging.Level
			if cmd.Flags().Changed("log-level") {
				level, _ = cmd.Flags().GetString("log-level")
			}
			logger.InitWithWriter(cmd.ErrOrStderr(), level, cfg.Logging.Format)
			return nil
		},
	}

	rootCmd.PersistentFlags().String("server", "", "Server alias (uses the selected server if not specified)")
	rootCmd.PersistentFlags().String("store", "", "Token store: keyring, file or memory (or set GESTIONE_TOKEN_STORE)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error (or set LOG_LEVEL)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gestione version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewSelectServerCmd())
	rootCmd.AddCommand(commands.NewLoginCmd(build))
	rootCmd.AddCommand(commands.NewLogoutCmd(build))
	rootCmd.AddCommand(commands.NewRegisterCmd(build))
	rootCmd.AddCommand(commands.NewSessionCmd(build))
	rootCmd.AddCommand(commands.NewProfileCmd(build))
	rootCmd.AddCommand(commands.NewHomeCmd(build))
	rootCmd.AddCommand(commands.NewClientsCmd(build))
	rootCmd.AddCommand(commands.NewAddressesCmd(build))
	rootCmd.AddCommand(commands.NewInvoicesCmd(build))
	rootCmd.AddCommand(commands.NewStatusesCmd(build))

	return rootCmd
}

// Execute runs the root command until it returns or ctx is cancelled
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd(commands.NewApp)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !commands.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}
