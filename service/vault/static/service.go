// Package static provides an in-memory vault.Service for tests and local
// runs.
package static

import (
	"context"
	"fmt"

	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/vault"
)

// Service maps credential URLs to plaintext passwords.
type Service struct {
	passwords map[string]string
}

// New creates a static vault from url->password pairs.
func New(passwords map[string]string) *Service {
	if passwords == nil {
		passwords = map[string]string{}
	}
	return &Service{passwords: passwords}
}

// Reveal implements vault.Service.
func (s *Service) Reveal(ctx context.Context, ref *model.CredentialRef) (string, error) {
	if ref == nil || ref.URL == "" {
		return "", fmt.Errorf("credential reference was empty")
	}
	password, ok := s.passwords[ref.URL]
	if !ok {
		return "", fmt.Errorf("no credential at %s", ref.URL)
	}
	return password, nil
}

var _ vault.Service = (*Service)(nil)
