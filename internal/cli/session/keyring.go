package session

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "gestione-cli"

// KeyringStore persists values in the OS keychain/credential manager
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a store scoped to the gestione keyring service
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: keyringService}
}

func (k *KeyringStore) Get(key string) (string, error) {
	value, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return value, nil
}

func (k *KeyringStore) Set(key, value string) error {
	if err := keyring.Set(k.service, key, value); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

func (k *KeyringStore) Delete(key string) error {
	if err := keyring.Delete(k.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}
