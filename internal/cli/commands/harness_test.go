package commands

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gestione-dev/gestione/internal/apitest"
	"github.com/gestione-dev/gestione/internal/cli/client"
	"github.com/gestione-dev/gestione/internal/cli/config"
	"github.com/gestione-dev/gestione/internal/cli/gateway"
	"github.com/gestione-dev/gestione/internal/cli/render"
	"github.com/gestione-dev/gestione/internal/cli/session"
	envconfig "github.com/gestione-dev/gestione/internal/config"
)

const testRedirectDelay = 20 * time.Millisecond

// recordingNavigator remembers every route it was asked to open
type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(ctx context.Context, route string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
	return nil
}

func (n *recordingNavigator) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

// harness runs commands against a fake backend with an in-memory token store
type harness struct {
	t       *testing.T
	baseURL string
	srv     *apitest.Server
	store   *session.MemoryStore
	session *session.Session
	nav     *recordingNavigator
	delay   time.Duration
	out     bytes.Buffer
	errOut  bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv := apitest.New(t)
	h := newHarnessFor(t, srv.URL)
	h.srv = srv
	return h
}

func newHarnessFor(t *testing.T, baseURL string) *harness {
	t.Helper()

	store := session.NewMemoryStore()
	return &harness{
		t:       t,
		baseURL: baseURL,
		store:   store,
		session: session.New(store, session.KeyFor("test"), zerolog.Nop()),
		nav:     &recordingNavigator{},
		delay:   testRedirectDelay,
	}
}

// login stores a valid token for username
func (h *harness) login(username string) string {
	h.t.Helper()
	token := h.srv.IssueToken(username, time.Hour)
	if err := h.session.Save(token); err != nil {
		h.t.Fatalf("failed to save token: %v", err)
	}
	return token
}

func (h *harness) token() string {
	token, _, err := h.session.Token()
	if err != nil {
		h.t.Fatalf("failed to read token: %v", err)
	}
	return token
}

func (h *harness) build(cmd *cobra.Command) (*App, error) {
	gw := gateway.New(h.baseURL, h.session, zerolog.Nop())
	return &App{
		In:            strings.NewReader(""),
		Out:           &h.out,
		Err:           &h.errOut,
		Logger:        zerolog.Nop(),
		Server:        config.Server{Alias: "test", URL: h.baseURL},
		Session:       h.session,
		Gateway:       gw,
		Client:        client.New(gw, envconfig.DefaultStatusesPath),
		Render:        render.New(&h.out, false),
		Navigate:      h.nav,
		RedirectDelay: h.delay,
		NoticeDelay:   testRedirectDelay,
	}, nil
}

func (h *harness) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "gestione",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("server", "", "")

	root.AddCommand(NewLoginCmd(h.build))
	root.AddCommand(NewLogoutCmd(h.build))
	root.AddCommand(NewRegisterCmd(h.build))
	root.AddCommand(NewSessionCmd(h.build))
	root.AddCommand(NewProfileCmd(h.build))
	root.AddCommand(NewHomeCmd(h.build))
	root.AddCommand(NewClientsCmd(h.build))
	root.AddCommand(NewAddressesCmd(h.build))
	root.AddCommand(NewInvoicesCmd(h.build))
	root.AddCommand(NewStatusesCmd(h.build))

	root.SetOut(&h.out)
	root.SetErr(&h.errOut)
	return root
}

func (h *harness) run(args ...string) error {
	return h.runContext(context.Background(), args...)
}

func (h *harness) runContext(ctx context.Context, args ...string) error {
	h.t.Helper()
	h.out.Reset()
	h.errOut.Reset()

	root := h.root()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
