package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gestione-dev/gestione/internal/cli/client"
	"github.com/gestione-dev/gestione/internal/cli/config"
	"github.com/gestione-dev/gestione/internal/cli/gateway"
	"github.com/gestione-dev/gestione/internal/cli/render"
	"github.com/gestione-dev/gestione/internal/cli/screen"
	"github.com/gestione-dev/gestione/internal/cli/session"
	envconfig "github.com/gestione-dev/gestione/internal/config"
	"github.com/gestione-dev/gestione/internal/logger"
)

// RegisterRedirectDelay is how long the registration notice stays before moving to login
const RegisterRedirectDelay = 3 * time.Second

// App is everything a command needs to talk to one server
type App struct {
	In          io.Reader
	Out         io.Writer
	Err         io.Writer
	Interactive bool // stdin is a terminal

	Logger   zerolog.Logger
	Server   config.Server
	Session  *session.Session
	Gateway  *gateway.Gateway
	Client   *client.Client
	Render   *render.Renderer
	Navigate screen.Navigator

	RedirectDelay time.Duration
	NoticeDelay   time.Duration

	closers []func() error
}

// Builder creates the App for a command invocation
type Builder func(cmd *cobra.Command) (*App, error)

// NewApp is the production Builder: environment and project config, token
// store, gateway and an interactive login navigator.
func NewApp(cmd *cobra.Command) (*App, error) {
	cfg, err := envconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.GetLogger()
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	serverAlias, _ := cmd.Flags().GetString("server")
	server, statusesPath, err := getSelectedServer(cfg, serverAlias, interactive, log)
	if err != nil {
		return nil, err
	}

	storeKind := cfg.Session.Store
	if kind, _ := cmd.Flags().GetString("store"); kind != "" {
		storeKind = kind
	}

	store, closeStore, err := session.Open(storeKind, cfg.Session.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	sess := session.New(store, session.KeyFor(server.Alias), log)

	gw := gateway.New(server.URL, sess, log)
	gw.SetHTTPClient(&http.Client{Timeout: cfg.API.Timeout})

	app := &App{
		In:            cmd.InOrStdin(),
		Out:           cmd.OutOrStdout(),
		Err:           cmd.ErrOrStderr(),
		Interactive:   interactive,
		Logger:        log,
		Server:        *server,
		Session:       sess,
		Gateway:       gw,
		Client:        client.New(gw, statusesPath),
		Render:        render.New(cmd.OutOrStdout(), interactive && term.IsTerminal(int(os.Stdout.Fd()))),
		RedirectDelay: cfg.Session.RedirectDelay,
		NoticeDelay:   RegisterRedirectDelay,
		closers:       []func() error{closeStore},
	}
	app.Navigate = &loginNavigator{app: app}

	return app, nil
}

// Close releases the token store
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close resource")
		}
	}
}

// Screen opens a screen bound to ctx
func (a *App) Screen(ctx context.Context, name string) *screen.Screen {
	return screen.New(ctx, name, a.Navigate, a.RedirectDelay, a.Logger)
}

// load runs fn on s. When the session is lost the message is shown at once
// and the command stays until the scheduled navigation has happened.
func (a *App) load(s *screen.Screen, fn func(ctx context.Context) error) error {
	err := s.Load(fn)
	if err == nil {
		return nil
	}
	if !gateway.IsSessionLost(err) {
		return err
	}

	fmt.Fprintf(a.Err, "Error: %v\n", err)
	if navErr := s.Wait(s.Context()); navErr != nil && s.Context().Err() == nil {
		fmt.Fprintf(a.Err, "Error: %v\n", navErr)
	}
	return reported{err}
}

// run executes fn as a single-load screen
func (a *App) run(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	s := a.Screen(ctx, name)
	defer s.Close()
	return a.load(s, fn)
}

// reported marks an error that has already been shown to the user
type reported struct {
	error
}

func (r reported) Unwrap() error {
	return r.error
}

// IsReported reports whether err was already printed by the command
func IsReported(err error) bool {
	var r reported
	return errors.As(err, &r)
}

// withApp builds the App for cmd and runs fn with it
func withApp(build Builder, cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	app, err := build(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, app)
}
