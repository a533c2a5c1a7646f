package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewStatusesCmd creates the statuses command group
func NewStatusesCmd(build Builder) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "statuses",
		Aliases: []string{"stati"},
		Short:   "Invoice statuses",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List invoice statuses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				return app.run(ctx, "statuses", func(ctx context.Context) error {
					statuses, err := app.Client.ListInvoiceStatuses(ctx)
					if err != nil {
						return err
					}
					app.Render.Statuses(statuses)
					return nil
				})
			})
		},
	})

	return cmd
}
