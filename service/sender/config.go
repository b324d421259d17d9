package sender

import "time"

// Config bounds the send worker pool.
type Config struct {
	// WorkerCount is the number of goroutines consuming send instructions.
	WorkerCount int `json:"workerCount" yaml:"workerCount"`

	// LockTTL bounds how long a crashed worker can block a (user, job)
	// pair.
	LockTTL time.Duration `json:"lockTTL" yaml:"lockTTL"`

	// MaxRetries caps the number of delayed re-publishes after transient
	// failures.
	MaxRetries int `json:"maxRetries" yaml:"maxRetries"`

	// RetryBase is the backoff unit; attempt n is retried after
	// RetryBase * 2^n.
	RetryBase time.Duration `json:"retryBase" yaml:"retryBase"`

	// IdlePoll bounds the sleep between polls on queues whose Consume does
	// not block.
	IdlePoll time.Duration `json:"idlePoll" yaml:"idlePoll"`
}

// DefaultConfig returns the production worker configuration.
func DefaultConfig() Config {
	return Config{
		WorkerCount: 5,
		LockTTL:     600 * time.Second,
		MaxRetries:  3,
		RetryBase:   60 * time.Second,
		IdlePoll:    250 * time.Millisecond,
	}
}
