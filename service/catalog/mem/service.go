// Package mem provides an in-memory catalog.Service for tests and local runs.
package mem

import (
	"context"
	"sync"
	"time"

	"github.com/viant/outreach/internal/clock"
	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/catalog"
)

// Service is an in-memory catalog.Service backed by a job snapshot.
type Service struct {
	mu   sync.RWMutex
	jobs map[model.JobID]*model.Job
}

// New creates an in-memory catalog seeded with the supplied jobs.
func New(jobs ...*model.Job) *Service {
	ret := &Service{jobs: make(map[model.JobID]*model.Job)}
	for _, job := range jobs {
		ret.jobs[job.ID] = cloneJob(job)
	}
	return ret
}

// Upsert adds or replaces a job record.
func (s *Service) Upsert(job *model.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = cloneJob(job)
}

// TodaysJobs implements catalog.Service.
func (s *Service) TodaysJobs(ctx context.Context) ([]*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	todayStart := clock.Now().UTC().Truncate(24 * time.Hour)
	var ret []*model.Job
	for _, job := range s.jobs {
		if job.RecruiterEmail == "" {
			continue
		}
		// a zero DiscoveredAt means the snapshot owner already day-scoped it
		if !job.DiscoveredAt.IsZero() && job.DiscoveredAt.Before(todayStart) {
			continue
		}
		ret = append(ret, cloneJob(job))
	}
	return ret, nil
}

// TodaysJobsByCategory implements catalog.Service.
func (s *Service) TodaysJobsByCategory(ctx context.Context, category string) ([]*model.Job, error) {
	jobs, err := s.TodaysJobs(ctx)
	if err != nil {
		return nil, err
	}
	var ret []*model.Job
	for _, job := range jobs {
		if job.Category == category {
			ret = append(ret, job)
		}
	}
	return ret, nil
}

// Lookup implements catalog.Service.
func (s *Service) Lookup(ctx context.Context, id model.JobID) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return cloneJob(job), nil
}

// RecordApplication implements catalog.Service.
func (s *Service) RecordApplication(ctx context.Context, jobID model.JobID, userID model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return catalog.ErrNotFound
	}
	if !job.WasAppliedBy(userID) {
		job.AppliedBy = append(job.AppliedBy, userID)
	}
	job.ApplicationCount++
	return nil
}

func cloneJob(job *model.Job) *model.Job {
	ret := *job
	ret.AppliedBy = append([]model.UserID(nil), job.AppliedBy...)
	return &ret
}

var _ catalog.Service = (*Service)(nil)
