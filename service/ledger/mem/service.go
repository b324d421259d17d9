package mem

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/ledger"
)

// Service is an in-memory ledger.Service for single-node deployments and
// tests.
type Service struct {
	mu      sync.RWMutex
	byPair  map[string]*model.ApplicationRecord
	byUser  map[model.UserID][]*model.ApplicationRecord
}

// New creates an in-memory ledger.
func New() *Service {
	return &Service{
		byPair: make(map[string]*model.ApplicationRecord),
		byUser: make(map[model.UserID][]*model.ApplicationRecord),
	}
}

func pairKey(userID model.UserID, jobID model.JobID) string {
	return fmt.Sprintf("%v:%v", userID, jobID)
}

// Append implements ledger.Service.
func (s *Service) Append(ctx context.Context, record *model.ApplicationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(record.UserID, record.JobID)
	if _, ok := s.byPair[key]; ok {
		return ledger.ErrDuplicate
	}
	stored := *record
	s.byPair[key] = &stored
	s.byUser[record.UserID] = append([]*model.ApplicationRecord{&stored}, s.byUser[record.UserID]...)
	return nil
}

// Exists implements ledger.Service.
func (s *Service) Exists(ctx context.Context, userID model.UserID, jobID model.JobID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byPair[pairKey(userID, jobID)]
	return ok, nil
}

// List implements ledger.Service.
func (s *Service) List(ctx context.Context, userID model.UserID) ([]*model.ApplicationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.byUser[userID]
	ret := make([]*model.ApplicationRecord, len(records))
	copy(ret, records)
	return ret, nil
}

var _ ledger.Service = (*Service)(nil)
