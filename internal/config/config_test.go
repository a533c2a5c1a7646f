package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, name := range []string{
		"GESTIONE_API_URL", "GESTIONE_HTTP_TIMEOUT", "GESTIONE_REDIRECT_DELAY",
		"GESTIONE_TOKEN_STORE", "GESTIONE_STATUSES_PATH", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(name, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.API.URL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, StoreKeyring, cfg.Session.Store)
	assert.Equal(t, DefaultRedirectDelay, cfg.Session.RedirectDelay)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GESTIONE_API_URL", "https://api.example.com/")
	t.Setenv("GESTIONE_REDIRECT_DELAY", "500")
	t.Setenv("GESTIONE_HTTP_TIMEOUT", "5s")
	t.Setenv("GESTIONE_TOKEN_STORE", "FILE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.URL)
	assert.Equal(t, 500*time.Millisecond, cfg.Session.RedirectDelay)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, StoreFile, cfg.Session.Store)
}

func TestLoad_InvalidValues(t *testing.T) {
	chdir(t, t.TempDir())

	t.Run("store", func(t *testing.T) {
		t.Setenv("GESTIONE_TOKEN_STORE", "cookie")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GESTIONE_TOKEN_STORE")
	})

	t.Run("delay", func(t *testing.T) {
		t.Setenv("GESTIONE_TOKEN_STORE", "")
		t.Setenv("GESTIONE_REDIRECT_DELAY", "soon")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GESTIONE_REDIRECT_DELAY")
	})

	for _, raw := range []string{"0", "0s", "-2s", "-500"} {
		t.Run("non-positive delay "+raw, func(t *testing.T) {
			t.Setenv("GESTIONE_TOKEN_STORE", "")
			t.Setenv("GESTIONE_REDIRECT_DELAY", raw)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "must be greater than zero")
		})
	}

	t.Run("non-positive timeout", func(t *testing.T) {
		t.Setenv("GESTIONE_TOKEN_STORE", "")
		t.Setenv("GESTIONE_REDIRECT_DELAY", "")
		t.Setenv("GESTIONE_HTTP_TIMEOUT", "0")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GESTIONE_HTTP_TIMEOUT")
	})
}
