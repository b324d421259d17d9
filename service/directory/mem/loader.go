package mem

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/outreach/model"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML user snapshot from the given URL (file, gs://, s3:// ...)
// and returns a directory seeded with it. The snapshot is a list of user
// records.
func Load(ctx context.Context, URL string) (*Service, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download user snapshot from %s: %w", URL, err)
	}
	var users []*model.User
	if err := yaml.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse user snapshot %s: %w", URL, err)
	}
	for _, user := range users {
		if err := user.Validate(); err != nil {
			return nil, fmt.Errorf("invalid user in snapshot %s: %w", URL, err)
		}
	}
	return New(users...), nil
}
