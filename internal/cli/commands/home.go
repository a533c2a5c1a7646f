package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gestione-dev/gestione/internal/cli/client"
	"github.com/gestione-dev/gestione/internal/cli/gateway"
)

// NewHomeCmd creates the home command
func NewHomeCmd(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Overview of the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				return app.run(ctx, "home", app.home)
			})
		},
	}
}

// home loads the profile and the three lists concurrently. The group has no
// shared context, so one failing does not cancel the others.
func (a *App) home(ctx context.Context) error {
	var (
		g         errgroup.Group
		errs      [4]error
		user      *client.User
		customers *client.Page[client.Customer]
		addresses *client.Page[client.Address]
		invoices  *client.Page[client.Invoice]
	)

	g.Go(func() error {
		user, errs[0] = a.Client.CurrentUser(ctx)
		return errs[0]
	})
	g.Go(func() error {
		customers, errs[1] = a.Client.ListCustomers(ctx, client.PageRequest{})
		return errs[1]
	})
	g.Go(func() error {
		addresses, errs[2] = a.Client.ListAddresses(ctx, client.PageRequest{})
		return errs[2]
	})
	g.Go(func() error {
		invoices, errs[3] = a.Client.ListInvoices(ctx, client.PageRequest{})
		return errs[3]
	})
	// Wait returns whichever error came first; a lost session takes priority
	if err := g.Wait(); err != nil {
		return firstError(errs[:])
	}

	fmt.Fprintf(a.Out, "Welcome, %s %s (@%s)\n\n", user.Nome, user.Cognome, user.Username)
	fmt.Fprintf(a.Out, "  Clients:   %d\n", customers.TotalElements)
	fmt.Fprintf(a.Out, "  Addresses: %d\n", addresses.TotalElements)
	fmt.Fprintf(a.Out, "  Invoices:  %d\n", invoices.TotalElements)
	return nil
}

// firstError prefers a session loss so the caller redirects to login
func firstError(errs []error) error {
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if gateway.IsSessionLost(err) {
			return err
		}
		if first == nil {
			first = err
		}
	}
	return first
}
