package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// KeyFor returns the storage key holding the token for a server alias
func KeyFor(serverAlias string) string {
	return fmt.Sprintf("authToken-%s", serverAlias)
}

// Session is the token slot for one server.
// It is passed explicitly to the request layer instead of being global state.
type Session struct {
	store  Store
	key    string
	logger zerolog.Logger
}

// New binds a store to a key
func New(store Store, key string, logger zerolog.Logger) *Session {
	return &Session{
		store:  store,
		key:    key,
		logger: logger,
	}
}

// Key returns the storage key of this session
func (s *Session) Key() string {
	return s.key
}

// Token returns the stored token. ok is false when no token is stored.
func (s *Session) Token() (token string, ok bool, err error) {
	token, err = s.store.Get(s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load token: %w", err)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// Save stores the token, replacing any previous one
func (s *Session) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("refusing to save an empty token")
	}
	if err := s.store.Set(s.key, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an empty slot is not an error.
func (s *Session) Clear() error {
	if err := s.store.Delete(s.key); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	s.logger.Debug().Str("key", s.key).Msg("Session token cleared")
	return nil
}
