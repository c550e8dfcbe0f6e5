package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

// Keyring persists the token in the operating system keyring, falling back
// to an encrypted file under dir.
type Keyring struct {
	ring keyring.Keyring
	key  string
}

func OpenKeyring(service, dir string) (*Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: service,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  dir,
		FilePasswordFunc:         keyring.FixedStringPrompt(service + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewKeyring(ring), nil
}

func NewKeyring(ring keyring.Keyring) *Keyring {
	return &Keyring{ring: ring, key: TokenKey}
}

func (k *Keyring) Token() (string, error) {
	item, err := k.ring.Get(k.key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", k.key, err)
	}
	if len(item.Data) == 0 {
		return "", ErrNotFound
	}
	return string(item.Data), nil
}

func (k *Keyring) SetToken(token string) error {
	if err := k.ring.Set(keyring.Item{Key: k.key, Data: []byte(token)}); err != nil {
		return fmt.Errorf("setting credential %q: %w", k.key, err)
	}
	return nil
}

func (k *Keyring) DeleteToken() error {
	err := k.ring.Remove(k.key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", k.key, err)
	}
	return nil
}
