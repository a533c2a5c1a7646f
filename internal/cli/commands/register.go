package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gestione-dev/gestione/internal/cli/forms"
	"github.com/gestione-dev/gestione/internal/cli/screen"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd(build Builder) *cobra.Command {
	var form forms.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(build, cmd, func(ctx context.Context, app *App) error {
				return app.register(ctx, form)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Nome, "first-name", "", "First name")
	f.StringVar(&form.Cognome, "last-name", "", "Last name")
	f.StringVar(&form.Username, "username", "", "Username")
	f.StringVar(&form.Email, "email", "", "Email")
	f.StringVar(&form.Password, "password", "", "Password (will prompt if not provided)")

	return cmd
}

func (a *App) register(ctx context.Context, form forms.RegisterForm) error {
	s := a.Screen(ctx, "register")
	defer s.Close()

	err := s.Load(func(ctx context.Context) error {
		if form.Password == "" && a.Interactive {
			p, err := readPassword(ctx, a.Out)
			if err != nil {
				return err
			}
			form.Password = p
		}

		reg, err := form.Payload()
		if err != nil {
			return err
		}
		return a.Client.Register(ctx, reg)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "✓ Registration complete. Redirecting to login in %s...\n", a.NoticeDelay)

	if err := s.RedirectAfter(screen.RouteLogin, a.NoticeDelay); err != nil {
		return err
	}
	return s.Wait(ctx)
}
