package commands

import (
	"context"
	"fmt"

	"github.com/gestione-dev/gestione/internal/cli/screen"
)

// loginNavigator sends the user to the login flow: interactively when a
// terminal is attached, otherwise with a hint.
type loginNavigator struct {
	app *App
}

func (n *loginNavigator) Navigate(ctx context.Context, route string) error {
	if route != screen.RouteLogin {
		return fmt.Errorf("unknown route %q", route)
	}

	if !n.app.Interactive {
		fmt.Fprintln(n.app.Err, "Run 'gestione login' to sign in.")
		return nil
	}

	fmt.Fprintln(n.app.Out, "\nRedirecting to login...")
	return n.app.login(ctx, "", "")
}
