package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"
	"github.com/viant/outreach/service/messaging"
)

// QueueConfig holds configuration for the redis-backed queue.
type QueueConfig struct {
	// Namespace prefixes every redis key, eg "outreach".
	Namespace string

	// Name is the logical queue name, eg "send".
	Name string
}

// DefaultConfig returns a standard configuration.
func DefaultConfig() QueueConfig {
	return QueueConfig{Namespace: "outreach", Name: "send"}
}

// envelope is the on-wire representation of a message.
type envelope[T any] struct {
	ID         string `json:"id"`
	Payload    T      `json:"payload"`
	EnqueuedAt int64  `json:"t"`
}

// Message implements messaging.Message for the redis queue
type Message[T any] struct {
	envelope  envelope[T]
	rawJSON   []byte
	queue     *Queue[T]
	mu        sync.Mutex
	processed bool
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.envelope.Payload
}

// Ack removes the message from the in-progress list.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true

	conn := m.queue.pool.Get()
	defer conn.Close()
	_, err := conn.Do("LREM", m.queue.inProgressKey, 1, m.rawJSON)
	return err
}

// Nack removes the message from the in-progress list and parks it on the
// dead set for operator inspection.
func (m *Message[T]) Nack(nackErr error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true

	conn := m.queue.pool.Get()
	defer conn.Close()
	if _, err := conn.Do("LREM", m.queue.inProgressKey, 1, m.rawJSON); err != nil {
		return err
	}
	_, err := conn.Do("ZADD", m.queue.deadKey, time.Now().Unix(), m.rawJSON)
	return err
}

// Queue implements messaging.Queue on redis. Immediately visible messages
// live on a list; delayed ones on a sorted set scored by their due epoch
// second, moved onto the list by the consumer once due. Consumed messages are
// held on an in-progress list until acked, so a crashed consumer leaves an
// inspectable trail.
type Queue[T any] struct {
	pool   *redis.Pool
	config QueueConfig

	jobsKey       string
	scheduledKey  string
	inProgressKey string
	deadKey       string
}

// sleepBackoffsInMilliseconds spaces idle polls so an empty queue does not
// hammer redis; a jitter is added to desynchronise concurrent consumers.
var sleepBackoffsInMilliseconds = []int64{0, 10, 100, 1000, 5000}

// NewQueue creates a redis-backed queue.
func NewQueue[T any](pool *redis.Pool, config QueueConfig) *Queue[T] {
	if config.Namespace == "" {
		config.Namespace = DefaultConfig().Namespace
	}
	if config.Name == "" {
		config.Name = DefaultConfig().Name
	}
	prefix := fmt.Sprintf("%s:queue:%s", config.Namespace, config.Name)
	return &Queue[T]{
		pool:          pool,
		config:        config,
		jobsKey:       prefix,
		scheduledKey:  prefix + ":scheduled",
		inProgressKey: prefix + ":inprogress",
		deadKey:       prefix + ":dead",
	}
}

// Publish adds a message to the queue; with a delay it lands on the
// scheduled set instead of the ready list.
func (q *Queue[T]) Publish(ctx context.Context, t *T, options ...messaging.Option) error {
	opts := messaging.NewPublishOptions(options...)

	rawJSON, err := json.Marshal(&envelope[T]{
		ID:         uuid.New().String(),
		Payload:    *t,
		EnqueuedAt: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	conn := q.pool.Get()
	defer conn.Close()

	if opts.Delay > 0 {
		dueAt := time.Now().Add(opts.Delay).Unix()
		_, err = conn.Do("ZADD", q.scheduledKey, dueAt, rawJSON)
		return err
	}
	_, err = conn.Do("LPUSH", q.jobsKey, rawJSON)
	return err
}

// Consume blocks until a message is available or the context is cancelled.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	var consecutiveNoJobs int64
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := q.requeueDue(); err != nil {
			return nil, err
		}

		msg, err := q.fetch()
		if err != nil {
			return nil, err
		}
		if msg != nil {
			return msg, nil
		}

		consecutiveNoJobs++
		sleepMS := sleepBackoffsInMilliseconds[len(sleepBackoffsInMilliseconds)-1]
		if consecutiveNoJobs < int64(len(sleepBackoffsInMilliseconds)) {
			sleepMS = sleepBackoffsInMilliseconds[consecutiveNoJobs]
		}
		if sleepMS > 0 {
			sleepMS += rand.Int63n(sleepMS/2 + 1)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(sleepMS) * time.Millisecond):
		}
	}
}

// fetch pops one ready message onto the in-progress list.
func (q *Queue[T]) fetch() (*Message[T], error) {
	conn := q.pool.Get()
	defer conn.Close()

	rawJSON, err := redis.Bytes(conn.Do("RPOPLPUSH", q.jobsKey, q.inProgressKey))
	if err == redis.ErrNil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var env envelope[T]
	if err := json.Unmarshal(rawJSON, &env); err != nil {
		// poison payload, park it on the dead set
		_, _ = conn.Do("LREM", q.inProgressKey, 1, rawJSON)
		_, _ = conn.Do("ZADD", q.deadKey, time.Now().Unix(), rawJSON)
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &Message[T]{envelope: env, rawJSON: rawJSON, queue: q}, nil
}

// requeueDue moves scheduled messages whose due time has passed onto the
// ready list. Each member is claimed with ZREM before pushing so concurrent
// consumers never duplicate it.
func (q *Queue[T]) requeueDue() error {
	conn := q.pool.Get()
	defer conn.Close()

	now := time.Now().Unix()
	members, err := redis.ByteSlices(conn.Do("ZRANGEBYSCORE", q.scheduledKey, "-inf", now, "LIMIT", 0, 100))
	if err != nil {
		return err
	}
	for _, rawJSON := range members {
		removed, err := redis.Int(conn.Do("ZREM", q.scheduledKey, rawJSON))
		if err != nil {
			return err
		}
		if removed == 0 {
			continue // another consumer claimed it
		}
		if _, err := conn.Do("LPUSH", q.jobsKey, rawJSON); err != nil {
			return err
		}
	}
	return nil
}

// Purge discards all ready and scheduled messages; in-progress messages are
// left to their consumers.
func (q *Queue[T]) Purge(ctx context.Context) (int, error) {
	conn := q.pool.Get()
	defer conn.Close()

	ready, err := redis.Int(conn.Do("LLEN", q.jobsKey))
	if err != nil {
		return 0, err
	}
	scheduled, err := redis.Int(conn.Do("ZCARD", q.scheduledKey))
	if err != nil {
		return 0, err
	}
	if _, err := conn.Do("DEL", q.jobsKey, q.scheduledKey); err != nil {
		return 0, err
	}
	return ready + scheduled, nil
}

// ensure Queue implements messaging interfaces
var (
	_ messaging.Queue[any] = (*Queue[any])(nil)
	_ messaging.Purger     = (*Queue[any])(nil)
)
