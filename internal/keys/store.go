// Package keys stores the language-model API key.
package keys

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/mithrel/hinglish/internal/config"
)

// APIKeyName is the credential under which the API key is stored.
const APIKeyName = "gemini_api_key"

// KeyStore provides access to stored secrets by name.
type KeyStore interface {
	Get(name string) (string, error)
	Put(name, secret string) error
	Delete(name string) error
}

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrReadOnly    = errors.New("key store is read-only")
)

// Open picks the store named by keys.provider.
func Open(v *viper.Viper) (KeyStore, error) {
	switch p := strings.ToLower(strings.TrimSpace(v.GetString("keys.provider"))); p {
	case "", "keyring":
		return &KeyringStore{}, nil
	case "config":
		path := v.ConfigFileUsed()
		if path == "" {
			path = config.DefaultConfigPath()
		}
		return &ConfigStore{V: v, Path: path}, nil
	case "env":
		return &EnvStore{Var: v.GetString("keys.env_var")}, nil
	default:
		return nil, fmt.Errorf("unknown key provider %q", p)
	}
}

// ConfigStore keeps the API key in plain text under keys.api_key. When Path
// is set the value is also written to that config file.
type ConfigStore struct {
	V    *viper.Viper
	Path string

	mu sync.Mutex
}

const configKey = "keys.api_key"

func (s *ConfigStore) Get(name string) (string, error) {
	if name != APIKeyName || s == nil || s.V == nil {
		return "", ErrKeyNotFound
	}
	val := strings.TrimSpace(s.V.GetString(configKey))
	if val == "" {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (s *ConfigStore) Put(name, secret string) error {
	if name != APIKeyName {
		return fmt.Errorf("config store only holds %s", APIKeyName)
	}
	return s.write(secret)
}

func (s *ConfigStore) Delete(name string) error {
	if name != APIKeyName || s == nil || s.V == nil {
		return nil
	}
	return s.write("")
}

func (s *ConfigStore) write(val string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.V.Set(configKey, val)
	if s.Path == "" {
		return nil
	}
	existing, err := os.ReadFile(s.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read config: %w", err)
	}
	out := config.SetOption(string(existing), configKey, val)
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.Path, []byte(out), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// EnvStore reads the API key from an environment variable.
type EnvStore struct {
	Var string
}

func (s *EnvStore) Get(name string) (string, error) {
	if name != APIKeyName || s.Var == "" {
		return "", ErrKeyNotFound
	}
	val := strings.TrimSpace(os.Getenv(s.Var))
	if val == "" {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (s *EnvStore) Put(string, string) error { return ErrReadOnly }
func (s *EnvStore) Delete(string) error      { return ErrReadOnly }

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
