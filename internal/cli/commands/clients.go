package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gestione-dev/gestione/internal/cli/client"
	"github.com/gestione-dev/gestione/internal/cli/forms"
)

// NewClientsCmd creates the clients command group
func NewClientsCmd(build Builder) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"clienti"},
		Short:   "Manage clients",
	}

	cmd.AddCommand(newClientsListCmd(build))
	cmd.AddCommand(newClientsAddCmd(build))
	cmd.AddCommand(newClientsRemoveCmd(build))

	return cmd
}

func newClientsListCmd(build Builder) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				return app.runList(ctx, "clients", opts.refresh, func(ctx context.Context) error {
					return app.showCustomers(ctx, req)
				})
			})
		},
	}

	opts.bind(cmd)
	return cmd
}

func (a *App) showCustomers(ctx context.Context, req client.PageRequest) error {
	page, err := a.Client.ListCustomers(ctx, req)
	if err != nil {
		return err
	}
	a.Render.Customers(page)
	return nil
}

func newClientsAddCmd(build Builder) *cobra.Command {
	var form forms.CustomerForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				return app.run(ctx, "clients add", func(ctx context.Context) error {
					return app.addCustomer(ctx, form)
				})
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.RagioneSociale, "name", "", "Company name")
	f.StringVar(&form.PartitaIva, "vat", "", "VAT number")
	f.StringVar(&form.Email, "email", "", "Email")
	f.StringVar(&form.Pec, "pec", "", "Certified email (PEC)")
	f.StringVar(&form.Telefono, "phone", "", "Phone")
	f.StringVar(&form.FatturatoAnnuale, "revenue", "", "Annual revenue")
	f.StringVar(&form.LogoAziendale, "logo", "", "Logo URL")
	f.StringVar(&form.TipoCliente, "type", "", "Client type: PA, SAS, SPA or SRL")
	f.StringVar(&form.EmailContatto, "contact-email", "", "Contact email")
	f.StringVar(&form.NomeContatto, "contact-first-name", "", "Contact first name")
	f.StringVar(&form.CognomeContatto, "contact-last-name", "", "Contact last name")
	f.StringVar(&form.TelefonoContatto, "contact-phone", "", "Contact phone")
	f.StringVar(&form.SedeLegaleID, "legal-address", "", "Legal address id (prompts when omitted on a terminal)")
	f.StringVar(&form.SedeOperativaID, "operating-address", "", "Operating address id")

	return cmd
}

func (a *App) addCustomer(ctx context.Context, form forms.CustomerForm) error {
	if a.Interactive {
		if form.TipoCliente == "" {
			options := make([]option, len(client.CustomerTypes))
			for i, t := range client.CustomerTypes {
				options[i] = option{Label: t, Value: t}
			}
			t, err := selectOption("Client type", options)
			if err != nil {
				return err
			}
			form.TipoCliente = t
		}
		if form.SedeLegaleID == "" {
			id, err := a.selectAddress(ctx, "Legal address")
			if err != nil {
				return err
			}
			form.SedeLegaleID = id
		}
	}

	input, err := form.Payload()
	if err != nil {
		return err
	}

	created, err := a.Client.CreateCustomer(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "✓ Client %s created (id %s)\n\n", created.RagioneSociale, created.ID)
	return a.showCustomers(ctx, client.PageRequest{})
}

func newClientsRemoveCmd(build Builder) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a client",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := client.ID(args[0])
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				ok, err := app.confirmDelete("client", id.String(), yes)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(app.Out, "Aborted.")
					return nil
				}
				return app.run(ctx, "clients", func(ctx context.Context) error {
					if err := app.Client.DeleteCustomer(ctx, id); err != nil {
						return err
					}
					fmt.Fprintln(app.Out, "✓ Client deleted")
					return app.showCustomers(ctx, client.PageRequest{})
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
