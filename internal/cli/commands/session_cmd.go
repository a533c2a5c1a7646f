package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gestione-dev/gestione/internal/cli/session"
)

// NewSessionCmd creates the session command
func NewSessionCmd(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				return app.showSession(time.Now())
			})
		},
	}
}

func (a *App) showSession(now time.Time) error {
	token, ok, err := a.Session.Token()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "Server: %s (%s)\n", a.Server.Alias, a.Server.URL)
	if !ok {
		fmt.Fprintln(a.Out, "Not logged in. Run 'gestione login' to sign in.")
		return nil
	}

	fmt.Fprintln(a.Out, "Logged in.")

	claims, err := session.Claims(token)
	if err != nil {
		fmt.Fprintln(a.Out, "  Token is opaque, no claims to show.")
		return nil
	}

	if claims.Subject != "" {
		fmt.Fprintf(a.Out, "  Subject:    %s\n", claims.Subject)
	}
	if !claims.IssuedAt.IsZero() {
		fmt.Fprintf(a.Out, "  Issued at:  %s\n", claims.IssuedAt.Local().Format(time.RFC3339))
	}
	if !claims.ExpiresAt.IsZero() {
		state := "valid"
		if claims.Expired(now) {
			state = "expired"
		}
		fmt.Fprintf(a.Out, "  Expires at: %s (%s)\n", claims.ExpiresAt.Local().Format(time.RFC3339), state)
	}
	return nil
}
