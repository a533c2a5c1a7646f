package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gestione-dev/gestione/internal/cli/client"
	"github.com/gestione-dev/gestione/internal/cli/forms"
)

// NewInvoicesCmd creates the invoices command group
func NewInvoicesCmd(build Builder) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoices",
		Aliases: []string{"fatture"},
		Short:   "Manage invoices",
	}

	cmd.AddCommand(newInvoicesListCmd(build))
	cmd.AddCommand(newInvoicesAddCmd(build))
	cmd.AddCommand(newInvoicesRemoveCmd(build))

	return cmd
}

func newInvoicesListCmd(build Builder) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				return app.runList(ctx, "invoices", opts.refresh, func(ctx context.Context) error {
					return app.showInvoices(ctx, req)
				})
			})
		},
	}

	opts.bind(cmd)
	return cmd
}

func (a *App) showInvoices(ctx context.Context, req client.PageRequest) error {
	page, err := a.Client.ListInvoices(ctx, req)
	if err != nil {
		return err
	}
	a.Render.Invoices(page)
	return nil
}

func newInvoicesAddCmd(build Builder) *cobra.Command {
	var form forms.InvoiceForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an invoice for a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				return app.run(ctx, "invoices add", func(ctx context.Context) error {
					return app.addInvoice(ctx, form)
				})
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.ClienteID, "client", "", "Client id (prompts when omitted on a terminal)")
	f.StringVar(&form.Numero, "number", "", "Invoice number")
	f.StringVar(&form.Data, "date", "", "Invoice date (YYYY-MM-DD)")
	f.StringVar(&form.Importo, "amount", "", "Amount in euro")
	f.StringVar(&form.StatoID, "status", "", "Status id (prompts when omitted on a terminal)")

	return cmd
}

func (a *App) addInvoice(ctx context.Context, form forms.InvoiceForm) error {
	if a.Interactive {
		if form.ClienteID == "" {
			id, err := a.selectCustomer(ctx)
			if err != nil {
				return err
			}
			form.ClienteID = id
		}
		if form.StatoID == "" {
			id, err := a.selectStatus(ctx)
			if err != nil {
				return err
			}
			form.StatoID = id
		}
	}

	customerID, input, err := form.Payload()
	if err != nil {
		return err
	}

	created, err := a.Client.CreateInvoice(ctx, customerID, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "✓ Invoice %s created (id %s)\n\n", created.Numero, created.ID)
	return a.showInvoices(ctx, client.PageRequest{})
}

func (a *App) selectCustomer(ctx context.Context) (string, error) {
	page, err := a.Client.ListCustomers(ctx, client.PageRequest{Size: 100})
	if err != nil {
		return "", err
	}

	options := make([]option, len(page.Content))
	for i, c := range page.Content {
		options[i] = option{
			Label: fmt.Sprintf("%s (%s)", c.RagioneSociale, c.PartitaIva),
			Value: c.ID.String(),
		}
	}
	return selectOption("Client", options)
}

func (a *App) selectStatus(ctx context.Context) (string, error) {
	statuses, err := a.Client.ListInvoiceStatuses(ctx)
	if err != nil {
		return "", err
	}

	options := make([]option, len(statuses))
	for i, s := range statuses {
		options[i] = option{Label: s.Label, Value: s.ID.String()}
	}
	return selectOption("Status", options)
}

func newInvoicesRemoveCmd(build Builder) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an invoice",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := client.ID(args[0])
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				ok, err := app.confirmDelete("invoice", id.String(), yes)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(app.Out, "Aborted.")
					return nil
				}
				return app.run(ctx, "invoices", func(ctx context.Context) error {
					if err := app.Client.DeleteInvoice(ctx, id); err != nil {
						return err
					}
					fmt.Fprintln(app.Out, "✓ Invoice deleted")
					return app.showInvoices(ctx, client.PageRequest{})
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
