// Package mutex defines the distributed acquire/release primitive used for
// send idempotency. A lock is keyed by an arbitrary string, owned by whoever
// acquired it and expires on its own after the TTL, so a crashed holder never
// blocks a key forever.
package mutex

import (
	"context"
	"time"
)

// Service is a TTL-bounded mutual exclusion primitive.
type Service interface {
	// Acquire attempts a set-if-absent on key. It returns true when the
	// caller now holds the lock, false when someone else does.
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)

	// Release frees the lock when still held by owner. Releasing a lock that
	// expired or changed hands is not an error; TTL expiry remains the
	// primary safety net.
	Release(ctx context.Context, key, owner string) error
}
