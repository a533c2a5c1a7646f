package commands

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestione-dev/gestione/internal/cli/client"
	"github.com/gestione-dev/gestione/internal/cli/gateway"
	"github.com/gestione-dev/gestione/internal/cli/screen"
)

func TestLoginThenListClients_SendsStoredBearer(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "abc123"})
	})
	mux.HandleFunc("GET /clienti", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[
			{"id":1,"ragioneSociale":"Alfa Srl","tipoCliente":"SRL"},
			{"id":2,"ragioneSociale":"Beta Spa","tipoCliente":"SPA"},
			{"id":3,"ragioneSociale":"Gamma Sas","tipoCliente":"SAS"}
		],"totalPages":1,"totalElements":3,"number":0,"size":20}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	h := newHarnessFor(t, srv.URL)

	require.NoError(t, h.run("login", "--username", "mario", "--password", "secret"))
	assert.Contains(t, h.out.String(), "Login successful")
	assert.Equal(t, "abc123", h.token())

	require.NoError(t, h.run("clients", "ls"))
	assert.Equal(t, "Bearer abc123", gotAuth)

	out := h.out.String()
	for _, name := range []string{"Alfa Srl", "Beta Spa", "Gamma Sas"} {
		assert.Contains(t, out, name)
	}
	// header, rule and one row per client
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 5)
}

func TestLogin_WithFakeBackend(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("mario", "secret")

	require.NoError(t, h.run("login", "--username", "mario", "--password", "secret"))
	assert.Contains(t, h.out.String(), "User: mario")
	assert.NotEmpty(t, h.token())
}

func TestLogin_WrongPasswordKeepsNoToken(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("mario", "secret")

	err := h.run("login", "--username", "mario", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid username or password")
	assert.False(t, gateway.IsSessionLost(err))
	assert.Empty(t, h.token())
	assert.Empty(t, h.nav.Routes())
}

func TestLogin_RejectedWithoutBodyUsesFallbackOnce(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("mario", "secret")
	h.srv.FailNext(http.StatusUnauthorized, "")

	err := h.run("login", "--username", "mario", "--password", "secret")
	require.Error(t, err)
	assert.Equal(t, client.MsgLoginFailed, err.Error())
	assert.Empty(t, h.token())
}

func TestLogin_CredentialsFromEnv(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("anna", "pw")
	t.Setenv("GESTIONE_USERNAME", "anna")
	t.Setenv("GESTIONE_PASSWORD", "pw")

	require.NoError(t, h.run("login"))
	assert.NotEmpty(t, h.token())
}

func TestLogin_NonInteractiveRequiresPassword(t *testing.T) {
	h := newHarness(t)

	err := h.run("login", "--username", "mario")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password is required")
	assert.Empty(t, h.srv.Requests())
}

func TestListClients_ExpiredSessionClearsTokenAndRedirects(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("mario", "secret")
	require.NoError(t, h.session.Save(h.srv.IssueToken("mario", -time.Minute)))

	start := time.Now()
	err := h.run("clients", "ls")
	require.Error(t, err)

	assert.True(t, IsReported(err))
	assert.ErrorIs(t, err, gateway.ErrSessionExpired)
	assert.Contains(t, h.errOut.String(), gateway.MsgSessionExpired)
	assert.Empty(t, h.token())
	assert.Equal(t, []string{screen.RouteLogin}, h.nav.Routes())
	assert.GreaterOrEqual(t, time.Since(start), testRedirectDelay)
}

func TestListClients_ForbiddenClearsToken(t *testing.T) {
	h := newHarness(t)
	h.login("mario")
	h.srv.FailNext(http.StatusForbidden, `{"message":"forbidden"}`)

	err := h.run("clients", "ls")
	require.Error(t, err)
	assert.Equal(t, gateway.MsgSessionExpired, err.Error())
	assert.Empty(t, h.token())
	assert.Equal(t, []string{screen.RouteLogin}, h.nav.Routes())
}

func TestListClients_ImmediateRedirectStillReportsError(t *testing.T) {
	h := newHarness(t)
	h.delay = time.Nanosecond

	for i := 0; i < 50; i++ {
		h.login("mario")
		h.srv.FailNext(http.StatusUnauthorized, "")

		err := h.run("clients", "ls")
		require.Error(t, err)
		assert.True(t, IsReported(err), "run %d", i)
		assert.Contains(t, h.errOut.String(), gateway.MsgSessionExpired, "run %d", i)
	}
	assert.Len(t, h.nav.Routes(), 50)
}

func TestListClients_NoTokenNeverReachesServer(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 2; i++ {
		err := h.run("clients", "ls")
		require.Error(t, err)
		assert.ErrorIs(t, err, gateway.ErrUnauthorized)
		assert.Contains(t, h.errOut.String(), gateway.MsgUnauthorized)
	}

	assert.Empty(t, h.srv.Requests())
	assert.Equal(t, []string{screen.RouteLogin, screen.RouteLogin}, h.nav.Routes())
}

func TestListClients_ServerErrorDoesNotRedirect(t *testing.T) {
	h := newHarness(t)
	token := h.login("mario")
	h.srv.FailNext(http.StatusInternalServerError, `{"message":"database unavailable"}`)

	err := h.run("clients", "ls")
	require.Error(t, err)
	assert.False(t, IsReported(err))
	assert.Equal(t, "database unavailable", err.Error())
	assert.Equal(t, token, h.token())
	assert.Empty(t, h.nav.Routes())
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.login("mario")

	require.NoError(t, h.run("logout"))
	assert.Empty(t, h.token())
	assert.Contains(t, h.out.String(), "Logged out of test.")

	// logging out twice is harmless
	require.NoError(t, h.run("logout"))
}

func TestSessionCmd(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("session"))
	assert.Contains(t, h.out.String(), "Not logged in.")

	h.login("mario")
	require.NoError(t, h.run("session"))
	assert.Contains(t, h.out.String(), "Subject:    mario")
	assert.Contains(t, h.out.String(), "(valid)")

	require.NoError(t, h.session.Save(h.srv.IssueToken("mario", -time.Minute)))
	require.NoError(t, h.run("session"))
	assert.Contains(t, h.out.String(), "(expired)")

	require.NoError(t, h.session.Save("opaque-token"))
	require.NoError(t, h.run("session"))
	assert.Contains(t, h.out.String(), "Token is opaque")
}

func TestRegister_NavigatesToLogin(t *testing.T) {
	h := newHarness(t)

	err := h.run("register",
		"--first-name", "Luca",
		"--last-name", "Bianchi",
		"--username", "luca",
		"--email", "luca@example.com",
		"--password", "pw",
	)
	require.NoError(t, err)
	assert.Contains(t, h.out.String(), "Registration complete")
	assert.Equal(t, []string{screen.RouteLogin}, h.nav.Routes())
	assert.Equal(t, 1, h.srv.Hits(http.MethodPost, "/auth/register"))

	// the new account can log in
	require.NoError(t, h.run("login", "--username", "luca", "--password", "pw"))
}

func TestRegister_InvalidFormSendsNothing(t *testing.T) {
	h := newHarness(t)

	err := h.run("register", "--username", "luca", "--email", "not-an-email", "--password", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first name is required")
	assert.Contains(t, err.Error(), "email is not a valid address")
	assert.Empty(t, h.srv.Requests())
	assert.Empty(t, h.nav.Routes())
}

func TestRegister_DuplicateUsername(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("luca", "pw")

	err := h.run("register",
		"--first-name", "Luca",
		"--last-name", "Bianchi",
		"--username", "luca",
		"--email", "luca@example.com",
		"--password", "pw",
	)
	require.Error(t, err)
	assert.Equal(t, "username already in use", err.Error())
	assert.Empty(t, h.nav.Routes())
}

func TestProfile(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("mario", "secret")
	h.login("mario")

	require.NoError(t, h.run("profile"))
	assert.Contains(t, h.out.String(), "Mario Rossi")
	assert.Contains(t, h.out.String(), "@mario")
	assert.Contains(t, h.out.String(), "mario@example.com")
}
