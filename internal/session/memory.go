package session

import (
	"context"
	"sync"
	"time"

	"github.com/pribylovaa/go-comments-widget/internal/models"
)

// MemoryStore - токен в памяти процесса с тем же сроком жизни, что у cookie.
type MemoryStore struct {
	mu      sync.RWMutex
	token   string
	expires time.Time
	now     func() time.Time
}

// NewMemoryStore создаёт пустое хранилище. now == nil - time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}

	return &MemoryStore{now: now}
}

func (s *MemoryStore) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" || !s.now().Before(s.expires) {
		return models.AnonymousToken, nil
	}

	return s.token, nil
}

func (s *MemoryStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.expires = s.now().Add(TTL)
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.expires = time.Time{}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
