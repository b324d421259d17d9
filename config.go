package outreach

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/outreach/service/allocator"
	"github.com/viant/outreach/service/sender"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the engine configuration. It can
// be populated from YAML or JSON; the zero value inherits package defaults.
type Config struct {
	Allocator allocator.Targets `json:"allocator" yaml:"allocator"`
	Sender    sender.Config     `json:"sender" yaml:"sender"`
	SMTP      SMTPConfig        `json:"smtp" yaml:"smtp"`
	// Schedule is a cron expression triggering daily distribution; empty
	// disables the trigger, leaving RunCycle as the only entry point.
	Schedule string `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

// SMTPConfig configures the default mail transport.
type SMTPConfig struct {
	Host        string        `json:"host" yaml:"host"`
	Port        int           `json:"port" yaml:"port"`
	DialTimeout time.Duration `json:"dialTimeout" yaml:"dialTimeout"`
}

// DefaultConfig returns a Config populated with the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Allocator: allocator.DefaultTargets(),
		Sender:    sender.DefaultConfig(),
		SMTP: SMTPConfig{
			Host:        "smtp.gmail.com",
			Port:        465,
			DialTimeout: 30 * time.Second,
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Allocator.TargetMin <= 0 || c.Allocator.TargetMax < c.Allocator.TargetMin {
		return fmt.Errorf("allocator targets must satisfy 0 < targetMin <= targetMax")
	}
	if c.Allocator.MaxSharing <= 0 {
		return fmt.Errorf("allocator.maxSharing must be > 0")
	}
	if c.Sender.WorkerCount <= 0 {
		return fmt.Errorf("sender.workerCount must be > 0")
	}
	if c.Sender.MaxRetries < 0 {
		return fmt.Errorf("sender.maxRetries must be >= 0")
	}
	if c.Sender.LockTTL <= 0 {
		return fmt.Errorf("sender.lockTTL must be > 0")
	}
	return nil
}

// LoadConfig reads YAML configuration from the given URL (file, gs://,
// s3:// ...) and overlays it on the defaults.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download config from %s: %w", URL, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return config, nil
}
