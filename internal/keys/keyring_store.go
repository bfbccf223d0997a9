package keys

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const DefaultKeyringService = "hinglish"

// KeyringStore keeps secrets in the system keyring.
type KeyringStore struct {
	Service string
}

func (s *KeyringStore) Get(name string) (string, error) {
	val, err := keyring.Get(s.service(), name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	if val == "" {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (s *KeyringStore) Put(name, secret string) error {
	return keyring.Set(s.service(), name, secret)
}

func (s *KeyringStore) Delete(name string) error {
	err := keyring.Delete(s.service(), name)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func (s *KeyringStore) service() string {
	if s != nil && s.Service != "" {
		return s.Service
	}
	return DefaultKeyringService
}

// KeyringAvailable reports whether a system keyring backend answers lookups.
func KeyringAvailable() bool {
	_, err := keyring.Get(DefaultKeyringService, "_probe_")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
