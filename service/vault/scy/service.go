// Package scy provides a vault.Service backed by viant/scy encrypted
// resources.
package scy

import (
	"context"
	"fmt"
	"reflect"

	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/vault"
	"github.com/viant/scy"
	"github.com/viant/scy/cred"
)

// Service reveals credentials stored as scy resources.
type Service struct {
	scyService *scy.Service
}

// New creates a scy-backed vault.
func New() *Service {
	return &Service{scyService: scy.New()}
}

// Reveal implements vault.Service. The referenced resource holds a
// cred.Basic; its password is returned.
func (s *Service) Reveal(ctx context.Context, ref *model.CredentialRef) (string, error) {
	if ref == nil || ref.URL == "" {
		return "", fmt.Errorf("credential reference was empty")
	}
	resource := scy.NewResource(reflect.TypeOf(cred.Basic{}), ref.URL, ref.Key)
	secret, err := s.scyService.Load(ctx, resource)
	if err != nil {
		return "", fmt.Errorf("failed to load credential from %s: %w", ref.URL, err)
	}
	basic, ok := secret.Target.(*cred.Basic)
	if !ok {
		return "", fmt.Errorf("unexpected credential type %T at %s", secret.Target, ref.URL)
	}
	if basic.Password == "" {
		return "", fmt.Errorf("credential at %s had empty password", ref.URL)
	}
	return basic.Password, nil
}

var _ vault.Service = (*Service)(nil)
