// Package catalog exposes the engine's read/update contract against the
// externally owned job pool. Jobs arrive from an upstream scraping and
// classification pipeline; the engine reads daily per-category snapshots and
// records confirmed applications back.
package catalog

import (
	"context"
	"errors"

	"github.com/viant/outreach/model"
)

// ErrNotFound signals that no job exists for the supplied id.
var ErrNotFound = errors.New("job not found")

// Service is the job catalog contract.
type Service interface {
	// TodaysJobs returns snapshots of jobs discovered since midnight UTC.
	// Jobs without a recruiter email are excluded: they cannot be applied
	// to and would only waste assignment slots.
	TodaysJobs(ctx context.Context) ([]*model.Job, error)

	// TodaysJobsByCategory narrows TodaysJobs to one category.
	TodaysJobsByCategory(ctx context.Context, category string) ([]*model.Job, error)

	// Lookup returns a snapshot of one job.
	Lookup(ctx context.Context, id model.JobID) (*model.Job, error)

	// RecordApplication atomically adds userID to the job's appliedBy set
	// and increments its applicationCount after a confirmed send. The
	// operation is a set-union plus increment, not read-modify-write, so
	// concurrent workers on different users of a shared job cannot lose
	// updates.
	RecordApplication(ctx context.Context, jobID model.JobID, userID model.UserID) error
}
