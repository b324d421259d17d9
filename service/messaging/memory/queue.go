package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/outreach/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	DeadLetter  bool
	QueueBuffer int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		DeadLetter:  true,
		QueueBuffer: 1000,
	}
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	mu        sync.Mutex
	processed bool
	failure   error
	createdAt time.Time
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Failure returns the error the message was nacked with, so a parked DLQ
// message keeps its failure reason for operator inspection.
func (m *Message[T]) Failure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failure
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	return nil
}

// Nack indicates a terminal failure in processing the message
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.failure = err

	if m.queue.config.DeadLetter {
		m.queue.dlqMu.Lock()
		m.queue.dlq = append(m.queue.dlq, m)
		m.queue.dlqMu.Unlock()
	}
	return nil
}

// Queue implements an in-memory messaging.Queue with support for delayed
// visibility. Delayed messages are held by per-message timers until due;
// Purge stops the timers and drains whatever is already visible.
type Queue[T any] struct {
	messages chan *Message[T]
	dlq      []*Message[T]
	config   Config
	mu       sync.Mutex
	timers   map[string]*time.Timer
	dlqMu    sync.Mutex
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}

	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		dlq:      make([]*Message[T], 0),
		timers:   make(map[string]*time.Timer),
		config:   config,
	}
}

// Publish adds a new item to the queue
func (q *Queue[T]) Publish(ctx context.Context, t *T, options ...messaging.Option) error {
	opts := messaging.NewPublishOptions(options...)

	msg := &Message[T]{
		id:        uuid.New().String(),
		payload:   *t,
		queue:     q,
		createdAt: time.Now(),
	}

	if opts.Delay <= 0 {
		select {
		case q.messages <- msg:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.timers[msg.id] = time.AfterFunc(opts.Delay, func() {
		q.mu.Lock()
		_, pending := q.timers[msg.id]
		delete(q.timers, msg.id)
		q.mu.Unlock()
		if !pending {
			// purged before becoming due
			return
		}
		q.messages <- msg
	})
	return nil
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Purge discards pending messages: not-yet-due timers are cancelled and the
// visible backlog is drained. Messages already handed to a consumer are not
// revoked.
func (q *Queue[T]) Purge(ctx context.Context) (int, error) {
	purged := 0

	q.mu.Lock()
	for id, timer := range q.timers {
		// an entry still in the map means the message has not reached the
		// channel: either the timer has not fired, or its callback will see
		// the entry gone and drop the message. Both count as purged.
		timer.Stop()
		delete(q.timers, id)
		purged++
	}
	q.mu.Unlock()

	for {
		select {
		case <-q.messages:
			purged++
		default:
			return purged, nil
		}
	}
}

// Size returns the current number of visible messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// Pending returns the number of messages still held back by a delay.
func (q *Queue[T]) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}

// DLQSize returns the number of messages in the dead letter queue
func (q *Queue[T]) DLQSize() int {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return len(q.dlq)
}

// DLQ returns a snapshot of the dead letter queue.
func (q *Queue[T]) DLQ() []*Message[T] {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return append([]*Message[T](nil), q.dlq...)
}

// ensure Queue implements messaging interfaces
var (
	_ messaging.Queue[any] = (*Queue[any])(nil)
	_ messaging.Purger     = (*Queue[any])(nil)
)
