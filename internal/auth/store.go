package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrHostNotFound = errors.New("host not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// Host is a registered game host. PasswordHash is the bcrypt hash of the
// login password.
type Host struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// HostStore persists host accounts. The Postgres implementation lives in
// pgstore.go; MemStore backs dev mode and tests.
type HostStore interface {
	CreateHost(ctx context.Context, h Host) error
	GetHostByEmail(ctx context.Context, email string) (Host, error)
}

// MemStore is an in-memory HostStore.
type MemStore struct {
	mu    sync.RWMutex
	hosts map[string]Host // keyed by email
}

func NewMemStore() *MemStore {
	return &MemStore{hosts: make(map[string]Host)}
}

func (s *MemStore) CreateHost(ctx context.Context, h Host) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.hosts[h.Email]; exists {
		return ErrEmailTaken
	}
	s.hosts[h.Email] = h
	return nil
}

func (s *MemStore) GetHostByEmail(ctx context.Context, email string) (Host, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hosts[email]
	if !ok {
		return Host{}, ErrHostNotFound
	}
	return h, nil
}
