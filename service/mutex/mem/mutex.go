package mem

import (
	"context"
	"sync"
	"time"

	"github.com/viant/outreach/internal/clock"
	"github.com/viant/outreach/service/mutex"
)

type entry struct {
	owner     string
	expiresAt time.Time
}

// Service is an in-process mutex.Service for single-node deployments and
// tests. Expired entries are reaped lazily on the next Acquire of the same
// key.
type Service struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// New creates an in-memory mutex service.
func New() *Service {
	return &Service{locks: make(map[string]*entry)}
}

// Acquire implements mutex.Service.
func (s *Service) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := clock.Now()
	if held, ok := s.locks[key]; ok && held.expiresAt.After(now) {
		return false, nil
	}
	s.locks[key] = &entry{owner: owner, expiresAt: now.Add(ttl)}
	return true, nil
}

// Release implements mutex.Service; only the current owner may release.
func (s *Service) Release(ctx context.Context, key, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if held, ok := s.locks[key]; ok && held.owner == owner {
		delete(s.locks, key)
	}
	return nil
}

var _ mutex.Service = (*Service)(nil)
