package model

import "time"

// ApplicationStatus is the terminal status of a send attempt.
type ApplicationStatus string

const (
	StatusSent   ApplicationStatus = "sent"
	StatusFailed ApplicationStatus = "failed"
)

// ApplicationRecord is one row of the append-only send ledger. A record's
// existence for a (user, job) pair is the durable deduplication signal, so
// exactly one record is written per successful or permanently failed attempt.
type ApplicationRecord struct {
	ID         string            `json:"id"`
	UserID     UserID            `json:"userId"`
	JobID      JobID             `json:"jobId"`
	Status     ApplicationStatus `json:"status"`
	Reason     string            `json:"reason,omitempty"`
	SentTo     string            `json:"sentTo,omitempty"`
	Subject    string            `json:"subject,omitempty"`
	Response   string            `json:"response,omitempty"`
	RetryCount int               `json:"retryCount,omitempty"`
	SentAt     time.Time         `json:"sentAt"`
}
