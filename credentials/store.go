// Package credentials persists the bearer token and the cached user identity
// the API client attaches to outbound requests. The client only reads the
// token on every send and clears everything when the API answers 401.
package credentials

import (
	"context"
	"errors"
	"sync"
)

// ErrNoCredentials is returned when nothing is stored.
var ErrNoCredentials = errors.New("credentials: none stored")

// User is the cached identity of the logged-in account.
type User struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == "admin" }

// Session is what a successful login produces.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Store is the persisted credential storage. Implementations must be safe for
// concurrent use.
type Store interface {
	// Token returns the bearer token or ErrNoCredentials.
	Token(ctx context.Context) (string, error)
	// User returns the cached identity or ErrNoCredentials.
	User(ctx context.Context) (*User, error)
	// Save replaces the stored session.
	Save(ctx context.Context, s Session) error
	// Clear removes token and user. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	session *Session
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Token(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil || m.session.Token == "" {
		return "", ErrNoCredentials
	}
	return m.session.Token, nil
}

func (m *MemoryStore) User(_ context.Context) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil || m.session.User == nil {
		return nil, ErrNoCredentials
	}
	u := *m.session.User
	return &u, nil
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	m.mu.Lock()
	m.session = &s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return nil
}
