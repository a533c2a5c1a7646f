// Package screen holds the lifecycle of one command invocation: its load
// state and any navigation scheduled after a failure.
package screen

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gestione-dev/gestione/internal/cli/gateway"
)

// State of a screen
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
	Redirecting
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	case Redirecting:
		return "redirecting"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Routes a screen can navigate to
const (
	RouteLogin = "login"
)

var (
	ErrBusy   = errors.New("screen is busy")
	ErrClosed = errors.New("screen is closed")
)

// Navigator moves the user to another route. Navigate must return once ctx is done.
type Navigator interface {
	Navigate(ctx context.Context, route string) error
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(ctx context.Context, route string) error

func (f NavigatorFunc) Navigate(ctx context.Context, route string) error {
	return f(ctx, route)
}

// Screen is a per-command state machine. A screen whose load fails because
// the session was lost schedules navigation to login; Close cancels it.
type Screen struct {
	name   string
	nav    Navigator
	delay  time.Duration
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	err      error
	redirect chan struct{}
	navErr   error
}

// New creates an idle screen bound to ctx
func New(ctx context.Context, name string, nav Navigator, delay time.Duration, logger zerolog.Logger) *Screen {
	ctx, cancel := context.WithCancel(ctx)
	return &Screen{
		name:   name,
		nav:    nav,
		delay:  delay,
		logger: logger.With().Str("screen", name).Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context is cancelled when the screen closes
func (s *Screen) Context() context.Context {
	return s.ctx
}

// State returns the current state
func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error of the last failed load
func (s *Screen) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Load runs fn as the screen's load. It is refused while a load or a
// redirect is in progress.
func (s *Screen) Load(fn func(ctx context.Context) error) error {
	s.mu.Lock()
	switch s.state {
	case Loading, Redirecting:
		s.mu.Unlock()
		return ErrBusy
	case Closed:
		s.mu.Unlock()
		return ErrClosed
	}
	s.state = Loading
	s.err = nil
	s.mu.Unlock()

	s.logger.Debug().Msg("Loading")
	err := fn(s.ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Closed {
		return err
	}

	if err == nil {
		s.state = Success
		return nil
	}

	s.state = Error
	s.err = err
	if gateway.IsSessionLost(err) {
		s.scheduleLocked(RouteLogin, s.delay)
	}
	return err
}

// RedirectAfter schedules navigation to route after delay
func (s *Screen) RedirectAfter(route string, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Closed:
		return ErrClosed
	case Loading, Redirecting:
		return ErrBusy
	}
	s.scheduleLocked(route, delay)
	return nil
}

func (s *Screen) scheduleLocked(route string, delay time.Duration) {
	s.state = Redirecting
	done := make(chan struct{})
	s.redirect = done

	s.logger.Debug().Str("route", route).Dur("delay", delay).Msg("Redirect scheduled")

	go func() {
		defer close(done)

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			s.logger.Debug().Str("route", route).Msg("Redirect cancelled")
			return
		case <-timer.C:
		}

		err := s.nav.Navigate(s.ctx, route)

		s.mu.Lock()
		s.navErr = err
		if s.state == Redirecting {
			s.state = Idle
		}
		s.mu.Unlock()
	}()
}

// Wait blocks until a scheduled redirect has run or been cancelled and
// returns the navigation error, if any.
func (s *Screen) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.redirect
	s.mu.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navErr
}

// Close tears the screen down, cancelling any pending redirect
func (s *Screen) Close() {
	s.mu.Lock()
	s.state = Closed
	done := s.redirect
	s.mu.Unlock()

	s.cancel()
	if done != nil {
		<-done
	}
}
