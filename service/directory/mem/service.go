package mem

import (
	"context"
	"sync"

	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/directory"
)

// Service is an in-memory directory.Service backed by a user snapshot.
type Service struct {
	mu    sync.RWMutex
	users map[model.UserID]*model.User
}

// New creates an in-memory directory seeded with the supplied users.
func New(users ...*model.User) *Service {
	ret := &Service{users: make(map[model.UserID]*model.User)}
	for _, user := range users {
		stored := *user
		ret.users[user.ID] = &stored
	}
	return ret
}

// Upsert adds or replaces a user record.
func (s *Service) Upsert(user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *user
	s.users[user.ID] = &stored
}

// ActiveUsers implements directory.Service.
func (s *Service) ActiveUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ret []*model.User
	for _, user := range s.users {
		if !user.Eligible() {
			continue
		}
		snapshot := *user
		ret = append(ret, &snapshot)
	}
	return ret, nil
}

// ActiveUsersByCategory implements directory.Service.
func (s *Service) ActiveUsersByCategory(ctx context.Context, category string) ([]*model.User, error) {
	users, err := s.ActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	var ret []*model.User
	for _, user := range users {
		if user.Category == category {
			ret = append(ret, user)
		}
	}
	return ret, nil
}

// Lookup implements directory.Service.
func (s *Service) Lookup(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	snapshot := *user
	return &snapshot, nil
}

// RecordSent implements directory.Service.
func (s *Service) RecordSent(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return directory.ErrNotFound
	}
	user.SentToday++
	user.SentTotal++
	return nil
}

// PauseAutomation implements directory.Service.
func (s *Service) PauseAutomation(ctx context.Context, id model.UserID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return directory.ErrNotFound
	}
	user.Active = false
	return nil
}

var _ directory.Service = (*Service)(nil)
