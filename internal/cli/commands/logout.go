package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				if err := app.Session.Clear(); err != nil {
					return err
				}
				fmt.Fprintf(app.Out, "Logged out of %s.\n", app.Server.Alias)
				return nil
			})
		},
	}
}
