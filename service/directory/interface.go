// Package directory exposes the engine's read/update contract against the
// externally owned user directory. The engine reads eligibility-filtered
// snapshots and, after a confirmed send, pushes counter increments back; it
// never owns the records.
package directory

import (
	"context"
	"errors"

	"github.com/viant/outreach/model"
)

// ErrNotFound signals that no user exists for the supplied id.
var ErrNotFound = errors.New("user not found")

// Service is the user directory contract.
type Service interface {
	// ActiveUsers returns snapshots of all eligible users: active, with a
	// live subscription and not disabled by an admin.
	ActiveUsers(ctx context.Context) ([]*model.User, error)

	// ActiveUsersByCategory returns eligible users of one category.
	ActiveUsersByCategory(ctx context.Context, category string) ([]*model.User, error)

	// Lookup returns a snapshot of one user, eligible or not.
	Lookup(ctx context.Context, id model.UserID) (*model.User, error)

	// RecordSent atomically increments the user's sentToday and sentTotal
	// counters after a confirmed send.
	RecordSent(ctx context.Context, id model.UserID) error

	// PauseAutomation disables further automated sends for the user, eg
	// after a mail authentication failure that needs user intervention.
	PauseAutomation(ctx context.Context, id model.UserID, reason string) error
}
