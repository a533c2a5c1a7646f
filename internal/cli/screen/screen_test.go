package screen

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestione-dev/gestione/internal/cli/gateway"
)

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

func sessionExpired() error {
	return &gateway.Error{Kind: gateway.OutcomeSessionExpired, Status: 403, Message: gateway.MsgSessionExpired}
}

func TestLoad_Success(t *testing.T) {
	nav := &recordingNavigator{}
	s := New(context.Background(), "clients", nav, 10*time.Millisecond, zerolog.Nop())
	defer s.Close()

	assert.Equal(t, Idle, s.State())
	require.NoError(t, s.Load(func(ctx context.Context) error { return nil }))
	assert.Equal(t, Success, s.State())
	assert.NoError(t, s.Wait(context.Background()))
	assert.Empty(t, nav.Routes())
}

func TestLoad_PlainErrorDoesNotRedirect(t *testing.T) {
	nav := &recordingNavigator{}
	s := New(context.Background(), "clients", nav, 10*time.Millisecond, zerolog.Nop())
	defer s.Close()

	failure := &gateway.Error{Kind: gateway.OutcomeRejected, Status: 400, Message: "bad"}
	err := s.Load(func(ctx context.Context) error { return failure })
	require.Error(t, err)
	assert.Equal(t, Error, s.State())
	assert.Equal(t, failure, s.Err())

	// a fresh trigger may load again after an error
	require.NoError(t, s.Load(func(ctx context.Context) error { return nil }))
	assert.Empty(t, nav.Routes())
}

func TestLoad_SessionLostRedirectsAfterDelay(t *testing.T) {
	nav := &recordingNavigator{}
	delay := 50 * time.Millisecond
	s := New(context.Background(), "clients", nav, delay, zerolog.Nop())
	defer s.Close()

	start := time.Now()
	err := s.Load(func(ctx context.Context) error { return sessionExpired() })
	require.Error(t, err)
	assert.Equal(t, Redirecting, s.State())
	assert.Empty(t, nav.Routes())

	require.NoError(t, s.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), delay)
	assert.Equal(t, []string{RouteLogin}, nav.Routes())
	assert.Equal(t, Idle, s.State())
}

func TestLoad_UnauthorizedRedirects(t *testing.T) {
	nav := &recordingNavigator{}
	s := New(context.Background(), "invoices", nav, time.Millisecond, zerolog.Nop())
	defer s.Close()

	err := s.Load(func(ctx context.Context) error {
		return &gateway.Error{Kind: gateway.OutcomeUnauthorized, Message: gateway.MsgUnauthorized}
	})
	require.Error(t, err)
	require.NoError(t, s.Wait(context.Background()))
	assert.Equal(t, []string{RouteLogin}, nav.Routes())
}

func TestLoad_RefusedWhileRedirecting(t *testing.T) {
	nav := &recordingNavigator{}
	s := New(context.Background(), "clients", nav, time.Hour, zerolog.Nop())
	defer s.Close()

	_ = s.Load(func(ctx context.Context) error { return sessionExpired() })

	called := false
	err := s.Load(func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrBusy)
	assert.False(t, called)
}

func TestLoad_RefusedWhileLoading(t *testing.T) {
	s := New(context.Background(), "clients", &recordingNavigator{}, time.Millisecond, zerolog.Nop())
	defer s.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.Load(func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	assert.ErrorIs(t, s.Load(func(ctx context.Context) error { return nil }), ErrBusy)
	close(release)

	assert.Eventually(t, func() bool { return s.State() == Success }, time.Second, time.Millisecond)
}

func TestClose_CancelsPendingRedirect(t *testing.T) {
	nav := &recordingNavigator{}
	s := New(context.Background(), "clients", nav, 30*time.Millisecond, zerolog.Nop())

	_ = s.Load(func(ctx context.Context) error { return sessionExpired() })
	s.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, nav.Routes())
	assert.Equal(t, Closed, s.State())
	assert.ErrorIs(t, s.Load(func(ctx context.Context) error { return nil }), ErrClosed)
}

func TestParentCancelCancelsRedirect(t *testing.T) {
	nav := &recordingNavigator{}
	ctx, cancel := context.WithCancel(context.Background())
	s := New(ctx, "clients", nav, 30*time.Millisecond, zerolog.Nop())
	defer s.Close()

	_ = s.Load(func(ctx context.Context) error { return sessionExpired() })
	cancel()

	require.NoError(t, s.Wait(context.Background()))
	assert.Empty(t, nav.Routes())
}

func TestRedirectAfter(t *testing.T) {
	nav := &recordingNavigator{}
	s := New(context.Background(), "register", nav, time.Hour, zerolog.Nop())
	defer s.Close()

	require.NoError(t, s.Load(func(ctx context.Context) error { return nil }))
	require.NoError(t, s.RedirectAfter(RouteLogin, 5*time.Millisecond))
	require.NoError(t, s.Wait(context.Background()))
	assert.Equal(t, []string{RouteLogin}, nav.Routes())
}

func TestWait_ReturnsNavigationError(t *testing.T) {
	boom := errors.New("boom")
	nav := NavigatorFunc(func(ctx context.Context, route string) error { return boom })
	s := New(context.Background(), "clients", nav, time.Millisecond, zerolog.Nop())
	defer s.Close()

	_ = s.Load(func(ctx context.Context) error { return sessionExpired() })
	assert.ErrorIs(t, s.Wait(context.Background()), boom)
}
