// Package distribution orchestrates one allocation cycle: it enumerates the
// categories of active users, fetches each category's users and today's jobs
// through the directory and catalog contracts and runs the allocator and
// scheduler per category. Categories without users or without jobs are
// skipped.
package distribution

import (
	"context"
	"fmt"
	"sort"

	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/allocator"
	"github.com/viant/outreach/service/catalog"
	"github.com/viant/outreach/service/directory"
	"github.com/viant/outreach/service/scheduler"
	"github.com/viant/outreach/tracing"
	"go.uber.org/zap"
)

// CategoryStats summarizes one category's share of a cycle.
type CategoryStats struct {
	Users       int `json:"users"`
	Jobs        int `json:"jobs"`
	Assignments int `json:"assignments"`
	Queued      int `json:"queued"`
}

// CycleStats summarizes one distribution cycle.
type CycleStats struct {
	Categories  map[string]CategoryStats `json:"categories"`
	TotalQueued int                      `json:"totalQueued"`
}

// Service runs distribution cycles.
type Service struct {
	directory directory.Service
	catalog   catalog.Service
	allocator *allocator.Service
	scheduler *scheduler.Service
	logger    *zap.SugaredLogger
}

// New creates a distribution service.
func New(directoryService directory.Service, catalogService catalog.Service, allocatorService *allocator.Service, schedulerService *scheduler.Service, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		directory: directoryService,
		catalog:   catalogService,
		allocator: allocatorService,
		scheduler: schedulerService,
		logger:    logger,
	}
}

// RunCycle distributes today's jobs to active users and enqueues the
// resulting send instructions.
func (s *Service) RunCycle(ctx context.Context) (stats *CycleStats, err error) {
	ctx, span := tracing.StartSpan(ctx, "distribution.RunCycle", "INTERNAL")
	defer tracing.EndSpan(span, err)

	users, err := s.directory.ActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active users: %w", err)
	}

	stats = &CycleStats{Categories: map[string]CategoryStats{}}
	for _, category := range sortedCategories(users) {
		categoryUsers, err := s.directory.ActiveUsersByCategory(ctx, category)
		if err != nil {
			return stats, fmt.Errorf("failed to load users for category %v: %w", category, err)
		}
		categoryJobs, err := s.catalog.TodaysJobsByCategory(ctx, category)
		if err != nil {
			return stats, fmt.Errorf("failed to load jobs for category %v: %w", category, err)
		}
		if len(categoryJobs) == 0 {
			s.logger.Infow("no jobs for category, skipping", "category", category, "users", len(categoryUsers))
			continue
		}
		assignments := s.allocator.Distribute(categoryUsers, categoryJobs)
		queued, err := s.scheduler.Schedule(ctx, assignments)
		if err != nil {
			return stats, fmt.Errorf("failed to schedule category %v: %w", category, err)
		}
		stats.Categories[category] = CategoryStats{
			Users:       len(categoryUsers),
			Jobs:        len(categoryJobs),
			Assignments: assignments.Total(),
			Queued:      queued,
		}
		stats.TotalQueued += queued
		s.logger.Infow("category distributed",
			"category", category,
			"users", len(categoryUsers),
			"jobs", len(categoryJobs),
			"queued", queued,
		)
	}
	span.WithAttributes(map[string]string{"cycle.queued": fmt.Sprintf("%d", stats.TotalQueued)})
	s.logger.Infow("distribution cycle complete", "queued", stats.TotalQueued)
	return stats, nil
}

// sortedCategories returns the distinct user categories in stable order.
func sortedCategories(users []*model.User) []string {
	seen := map[string]bool{}
	var ret []string
	for _, user := range users {
		if seen[user.Category] {
			continue
		}
		seen[user.Category] = true
		ret = append(ret, user.Category)
	}
	sort.Strings(ret)
	return ret
}
