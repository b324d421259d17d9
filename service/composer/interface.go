// Package composer defines the contract for producing application email
// content for a user/job pair.
package composer

import (
	"context"

	"github.com/viant/outreach/model"
)

// Email is composed, ready-to-send content.
type Email struct {
	Subject string
	Body    string
}

// Service composes an application email for a user/job pair. Errors are
// treated as transient by the caller; composition has no terminal failure
// mode of its own.
type Service interface {
	Compose(ctx context.Context, user *model.User, job *model.Job) (*Email, error)
}
