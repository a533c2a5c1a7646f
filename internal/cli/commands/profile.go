package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewProfileCmd creates the profile command
func NewProfileCmd(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:     "profile",
		Aliases: []string{"me", "whoami"},
		Short:   "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				return app.run(ctx, "profile", func(ctx context.Context) error {
					user, err := app.Client.CurrentUser(ctx)
					if err != nil {
						return err
					}
					app.Render.User(user)
					return nil
				})
			})
		},
	}
}
