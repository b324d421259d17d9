package sender

import "time"

// Status is the terminal state of one processed send instruction.
type Status string

const (
	// StatusSuccess means the email was accepted by the mail server and all
	// side effects were committed.
	StatusSuccess Status = "success"
	// StatusSkipped means the instruction resolved without a send and
	// without an error, eg the pair was already handled.
	StatusSkipped Status = "skipped"
	// StatusFailed means the instruction failed permanently; a ledger row
	// records the reason.
	StatusFailed Status = "failed"
	// StatusRetrying means a transient failure was re-published with a
	// backoff delay.
	StatusRetrying Status = "retrying"
)

// Reason qualifies skipped and failed outcomes.
type Reason string

const (
	// ReasonDuplicateLock: another worker holds the pair lock.
	ReasonDuplicateLock Reason = "duplicate_lock"
	// ReasonAlreadyApplied: a ledger row exists for the pair.
	ReasonAlreadyApplied Reason = "already_applied"
	// ReasonNotFound: the user or job disappeared upstream.
	ReasonNotFound Reason = "not_found"
	// ReasonNoRecruiterEmail: the job carries no valid recipient address.
	ReasonNoRecruiterEmail Reason = "no_recruiter_email"
	// ReasonCredentialsUnavailable: the user's mail credential could not be
	// revealed.
	ReasonCredentialsUnavailable Reason = "credentials_unavailable"
	// ReasonAuth: the mailbox rejected the credentials; the user's
	// automation is paused.
	ReasonAuth Reason = "auth"
	// ReasonMaxRetries: transient failures exhausted the retry budget.
	ReasonMaxRetries Reason = "max_retries"
)

// Outcome describes how one send instruction resolved.
type Outcome struct {
	Status Status
	Reason Reason
	// RetryIn is set on retrying outcomes.
	RetryIn time.Duration
}
