package mem

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/outreach/model"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML job snapshot from the given URL (file, gs://, s3:// ...)
// and returns a catalog seeded with it. The snapshot is a list of job
// records.
func Load(ctx context.Context, URL string) (*Service, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download job snapshot from %s: %w", URL, err)
	}
	var jobs []*model.Job
	if err := yaml.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse job snapshot %s: %w", URL, err)
	}
	for _, job := range jobs {
		if err := job.Validate(); err != nil {
			return nil, fmt.Errorf("invalid job in snapshot %s: %w", URL, err)
		}
	}
	return New(jobs...), nil
}
