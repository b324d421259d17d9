// Package ledger defines the append-only record of every send attempt. The
// ledger serves two purposes: audit (every terminal outcome leaves exactly
// one row) and durable deduplication (a row's existence for a (user, job)
// pair means the pair must never be sent again).
package ledger

import (
	"context"

	"github.com/viant/outreach/model"
)

// Service is the append-only application ledger.
type Service interface {
	// Append stores one terminal outcome. Appending a second record for the
	// same (user, job) pair returns ErrDuplicate.
	Append(ctx context.Context, record *model.ApplicationRecord) error

	// Exists reports whether any record exists for the (user, job) pair.
	Exists(ctx context.Context, userID model.UserID, jobID model.JobID) (bool, error)

	// List returns all records for a user, newest first.
	List(ctx context.Context, userID model.UserID) ([]*model.ApplicationRecord, error)
}
