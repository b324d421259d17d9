package model

import (
	"fmt"
	"time"
)

// JobID identifies a job within the catalog.
type JobID string

// Job is a read-only snapshot of a catalog record. AppliedBy and
// ApplicationCount reflect the state at snapshot time; they are only mutated
// through the catalog service once a send has been confirmed.
type Job struct {
	ID               JobID     `json:"id" yaml:"id"`
	Title            string    `json:"title,omitempty" yaml:"title,omitempty"`
	Company          string    `json:"company,omitempty" yaml:"company,omitempty"`
	Category         string    `json:"category" yaml:"category"`
	RecruiterEmail   string    `json:"recruiterEmail" yaml:"recruiterEmail"`
	DiscoveredAt     time.Time `json:"discoveredAt,omitempty" yaml:"discoveredAt,omitempty"`
	AppliedBy        []UserID  `json:"appliedBy,omitempty" yaml:"appliedBy,omitempty"`
	ApplicationCount int       `json:"applicationCount,omitempty" yaml:"applicationCount,omitempty"`
}

// WasAppliedBy reports whether the user already applied to this job.
func (j *Job) WasAppliedBy(id UserID) bool {
	for _, applied := range j.AppliedBy {
		if applied == id {
			return true
		}
	}
	return false
}

// Validate checks the fields the allocator depends on.
func (j *Job) Validate() error {
	if j == nil {
		return fmt.Errorf("job was nil")
	}
	if j.ID == "" {
		return fmt.Errorf("job id was empty")
	}
	if j.Category == "" {
		return fmt.Errorf("job %v category was empty", j.ID)
	}
	return nil
}
