package session

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "cartha-cli"

// ErrNoToken is returned when no token is stored for the server
var ErrNoToken = errors.New("no stored token")

// TokenStore persists the bearer token across CLI invocations.
// The interface exists so tests can swap the OS keyring for memory.
type TokenStore interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	DeleteToken() error
}

// keyringTokenStore stores the token in the OS keychain/credential
// manager, keyed per API host so multiple servers can coexist
type keyringTokenStore struct {
	host string
}

// NewKeyringTokenStore returns a TokenStore backed by the OS keyring
func NewKeyringTokenStore(host string) TokenStore {
	return &keyringTokenStore{host: host}
}

func (k *keyringTokenStore) key() string {
	return fmt.Sprintf("token-%s", k.host)
}

func (k *keyringTokenStore) SaveToken(token string) error {
	if err := keyring.Set(keyringService, k.key(), token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (k *keyringTokenStore) LoadToken() (string, error) {
	token, err := keyring.Get(keyringService, k.key())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

func (k *keyringTokenStore) DeleteToken() error {
	if err := keyring.Delete(keyringService, k.key()); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
