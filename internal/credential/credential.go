// Package credential stores the session bearer token.
package credential

import (
	"errors"
	"sync"
)

// TokenKey is the storage key of the session access token.
const TokenKey = "auth_token"

// ErrNotFound reports that no token is stored. Callers treat it as the
// logged-out steady state, not as a failure.
var ErrNotFound = errors.New("credential not found")

type Source interface {
	Token() (string, error)
}

type Store interface {
	Source
	SetToken(token string) error
	DeleteToken() error
}

// Memory keeps the token in process memory only.
type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Token() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return "", ErrNotFound
	}
	return m.token, nil
}

func (m *Memory) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) DeleteToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
