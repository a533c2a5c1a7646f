package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gestione-dev/gestione/internal/cli/client"
	"github.com/gestione-dev/gestione/internal/cli/forms"
)

// NewAddressesCmd creates the addresses command group
func NewAddressesCmd(build Builder) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "addresses",
		Aliases: []string{"indirizzi"},
		Short:   "Manage addresses",
	}

	cmd.AddCommand(newAddressesListCmd(build))
	cmd.AddCommand(newAddressesAddCmd(build))
	cmd.AddCommand(newAddressesRemoveCmd(build))

	return cmd
}

func newAddressesListCmd(build Builder) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				return app.runList(ctx, "addresses", opts.refresh, func(ctx context.Context) error {
					return app.showAddresses(ctx, req)
				})
			})
		},
	}

	opts.bind(cmd)
	return cmd
}

func (a *App) showAddresses(ctx context.Context, req client.PageRequest) error {
	page, err := a.Client.ListAddresses(ctx, req)
	if err != nil {
		return err
	}
	a.Render.Addresses(page)
	return nil
}

// selectAddress lets the user pick one of the stored addresses
func (a *App) selectAddress(ctx context.Context, label string) (string, error) {
	page, err := a.Client.ListAddresses(ctx, client.PageRequest{Size: 100})
	if err != nil {
		return "", err
	}

	options := make([]option, len(page.Content))
	for i, addr := range page.Content {
		options[i] = option{
			Label: fmt.Sprintf("%s, %s - %05d %s", addr.Via, addr.Civico, addr.Cap, addr.Comune),
			Value: addr.ID.String(),
		}
	}
	return selectOption(label, options)
}

func newAddressesAddCmd(build Builder) *cobra.Command {
	var form forms.AddressForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				return app.run(ctx, "addresses add", func(ctx context.Context) error {
					input, err := form.Payload()
					if err != nil {
						return err
					}

					created, err := app.Client.CreateAddress(ctx, input)
					if err != nil {
						return err
					}

					fmt.Fprintf(app.Out, "✓ Address %s, %s created (id %s)\n\n", created.Via, created.Civico, created.ID)
					return app.showAddresses(ctx, client.PageRequest{})
				})
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Via, "street", "", "Street")
	f.StringVar(&form.Civico, "number", "", "Street number")
	f.StringVar(&form.Localita, "locality", "", "Locality")
	f.StringVar(&form.Cap, "postcode", "", "Postcode (CAP)")
	f.StringVar(&form.Comune, "municipality", "", "Municipality")

	return cmd
}

func newAddressesRemoveCmd(build Builder) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an address",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := client.ID(args[0])
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				ok, err := app.confirmDelete("address", id.String(), yes)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(app.Out, "Aborted.")
					return nil
				}
				return app.run(ctx, "addresses", func(ctx context.Context) error {
					if err := app.Client.DeleteAddress(ctx, id); err != nil {
						return err
					}
					fmt.Fprintln(app.Out, "✓ Address deleted")
					return app.showAddresses(ctx, client.PageRequest{})
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
