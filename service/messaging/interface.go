package messaging

import (
	"context"
	"time"
)

// Queue represents an abstract message queue for any payload type. Delivery
// is at-least-once: a message that is neither acked nor nacked before its
// consumer dies may be delivered again.
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue. Options may
	// defer visibility of the message, see WithDelay.
	Publish(ctx context.Context, t *T, options ...Option) error

	// Consume retrieves a single message from the queue, blocking until one
	// becomes available or the context is cancelled.
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates terminal failure in processing this message
	Nack(err error) error
}

// Purger is implemented by queues that support the administrative
// "emergency stop": discarding pending (not yet consumed) messages. The
// operation is best-effort; messages already claimed by a consumer are not
// revoked.
type Purger interface {
	Purge(ctx context.Context) (int, error)
}

// Option adjusts publishing behaviour.
type Option func(*PublishOptions)

// PublishOptions holds per-publish settings.
type PublishOptions struct {
	// Delay keeps the message invisible to consumers until it has elapsed.
	Delay time.Duration
}

// WithDelay defers visibility of the published message by the given duration.
func WithDelay(delay time.Duration) Option {
	return func(o *PublishOptions) {
		o.Delay = delay
	}
}

// NewPublishOptions applies the supplied options to a zero value.
func NewPublishOptions(options ...Option) *PublishOptions {
	ret := &PublishOptions{}
	for _, option := range options {
		option(ret)
	}
	return ret
}
