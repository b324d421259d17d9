package model

import (
	"fmt"
	"time"
)

// SendInstruction instructs a send worker to deliver one outreach email for a
// (user, job) pair. NotBefore is advisory; delivery may happen later under
// broker jitter. Attempt starts at zero and is incremented on every delayed
// re-publish, so retry state lives on the instruction rather than in the
// broker.
type SendInstruction struct {
	UserID    UserID    `json:"userId"`
	JobID     JobID     `json:"jobId"`
	NotBefore time.Time `json:"notBefore"`
	Attempt   int       `json:"attempt,omitempty"`
}

// PairKey returns the canonical (user, job) key used for locking and
// deduplication.
func (i *SendInstruction) PairKey() string {
	return fmt.Sprintf("send:%v:%v", i.UserID, i.JobID)
}
