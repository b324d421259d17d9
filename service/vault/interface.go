// Package vault defines the contract for revealing encrypted mail
// credentials. The engine never stores plaintext passwords; it resolves them
// just-in-time per send and drops them with the request.
package vault

import (
	"context"

	"github.com/viant/outreach/model"
)

// Service reveals the plaintext password behind a credential reference.
type Service interface {
	Reveal(ctx context.Context, ref *model.CredentialRef) (string, error)
}
