package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gestione-dev/gestione/internal/cli/client"
	"github.com/gestione-dev/gestione/internal/cli/gateway"
	"github.com/gestione-dev/gestione/internal/cli/session"
)

// NewLoginCmd creates the login command
func NewLoginCmd(build Builder) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				return app.run(ctx, "login", func(ctx context.Context) error {
					return app.login(ctx, username, password)
				})
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (or set GESTIONE_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set GESTIONE_PASSWORD, will prompt if not provided)")

	return cmd
}

// login authenticates and saves the token, prompting for missing credentials
func (a *App) login(ctx context.Context, username, password string) error {
	if username == "" {
		username = os.Getenv("GESTIONE_USERNAME")
	}
	if password == "" {
		password = os.Getenv("GESTIONE_PASSWORD")
	}

	if username == "" {
		if !a.Interactive {
			return fmt.Errorf("username is required (use --username flag or GESTIONE_USERNAME env var)")
		}
		var err error
		if username, err = promptText("Username"); err != nil {
			return err
		}
	}

	if password == "" {
		if !a.Interactive {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or GESTIONE_PASSWORD env var)")
		}
		var err error
		if password, err = readPassword(ctx, a.Out); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.Out, "Logging in to %s (%s)...\n", a.Server.Alias, a.Server.URL)

	token, err := a.Client.Login(ctx, client.Credentials{Username: username, Password: password})
	if err != nil {
		// Server replies already carry a message, fallback included
		var gwErr *gateway.Error
		if errors.As(err, &gwErr) {
			return err
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if err := a.Session.Save(token); err != nil {
		return err
	}

	fmt.Fprintln(a.Out, "✓ Login successful!")

	if claims, err := session.Claims(token); err == nil && claims.Subject != "" {
		fmt.Fprintf(a.Out, "  User: %s\n", claims.Subject)
	}

	return nil
}
