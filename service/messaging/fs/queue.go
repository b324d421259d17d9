package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/outreach/service/messaging"
)

// MessageState represents the state of a message in the filesystem queue
type MessageState string

const (
	// MessageStatePending indicates a message is waiting to be processed
	MessageStatePending MessageState = "pending"

	// MessageStateProcessing indicates a message is being processed
	MessageStateProcessing MessageState = "processing"

	// MessageStateCompleted indicates a message was successfully processed
	MessageStateCompleted MessageState = "completed"

	// MessageStateFailed indicates a message terminally failed processing
	MessageStateFailed MessageState = "failed"
)

// Message implements messaging.Message for the filesystem queue
type Message[T any] struct {
	ID        string       `json:"id"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	NotBefore time.Time    `json:"notBefore,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`

	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack acknowledges that the message was processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = MessageStateCompleted
	m.UpdatedAt = time.Now()
	return m.queue.completeMessage(context.Background(), m)
}

// Nack indicates that the message terminally failed; it moves to the DLQ.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = MessageStateFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.UpdatedAt = time.Now()
	return m.queue.failMessage(context.Background(), m)
}

// QueueConfig holds configuration for filesystem queue
type QueueConfig struct {
	BasePath string // Base directory for queue files
}

// DefaultConfig returns a default queue configuration
func DefaultConfig() QueueConfig {
	return QueueConfig{
		BasePath: "/tmp/outreach/queue",
	}
}

// Queue implements a filesystem-based messaging.Queue. Messages survive a
// process restart; a message with a future NotBefore stays in the pending
// directory until due. Consume is non-blocking at the storage level and
// returns (nil, nil) when nothing is due.
type Queue[T any] struct {
	fs            afs.Service
	config        QueueConfig
	pendingDir    string
	processingDir string
	completedDir  string
	dlqDir        string
	mu            sync.Mutex
}

// NewQueue creates a new filesystem-based queue
func NewQueue[T any](fs afs.Service, config QueueConfig) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingDir:    path.Join(config.BasePath, "pending"),
		processingDir: path.Join(config.BasePath, "processing"),
		completedDir:  path.Join(config.BasePath, "completed"),
		dlqDir:        path.Join(config.BasePath, "dlq"),
	}

	dirs := []string{q.pendingDir, q.processingDir, q.completedDir, q.dlqDir}
	ctx := context.Background()
	for _, dir := range dirs {
		exists, _ := fs.Exists(ctx, dir)
		if !exists {
			if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return q, nil
}

// Publish adds a new message to the queue
func (q *Queue[T]) Publish(ctx context.Context, t *T, options ...messaging.Option) error {
	opts := messaging.NewPublishOptions(options...)

	message := &Message[T]{
		ID:        uuid.New().String(),
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		queue:     q,
	}
	if opts.Delay > 0 {
		message.NotBefore = time.Now().Add(opts.Delay)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	filePath := path.Join(q.pendingDir, q.generateFilename(message.ID))
	return q.uploadMessage(ctx, filePath, data)
}

// Consume retrieves the oldest due message from the queue, or (nil, nil) when
// none is due yet.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	objects, err := q.fs.List(ctx, q.pendingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}

	var pendingFiles []storage.Object
	for _, obj := range objects {
		if !obj.IsDir() && strings.HasSuffix(obj.Name(), ".json") {
			pendingFiles = append(pendingFiles, obj)
		}
	}

	now := time.Now()
	for _, obj := range pendingFiles {
		message, err := q.readMessageFromURL(ctx, obj.URL())
		if err != nil {
			// Move invalid message to DLQ
			destURL := path.Join(q.dlqDir, fmt.Sprintf("invalid-%s", obj.Name()))
			_ = q.fs.Move(ctx, obj.URL(), destURL)
			return nil, err
		}
		if !message.NotBefore.IsZero() && message.NotBefore.After(now) {
			continue
		}

		message.State = MessageStateProcessing
		message.UpdatedAt = now
		message.queue = q

		updatedData, err := json.Marshal(message)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal updated message: %w", err)
		}

		// Upload to processing directory first, then delete from pending
		processingPath := path.Join(q.processingDir, obj.Name())
		if err := q.uploadMessage(ctx, processingPath, updatedData); err != nil {
			return nil, fmt.Errorf("failed to move message to processing directory: %w", err)
		}
		if err := q.fs.Delete(ctx, obj.URL()); err != nil {
			return nil, fmt.Errorf("failed to delete message from pending directory: %w", err)
		}
		return message, nil
	}
	return nil, nil
}

// Purge removes all pending messages; in-flight ones are untouched.
func (q *Queue[T]) Purge(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	objects, err := q.fs.List(ctx, q.pendingDir)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending messages: %w", err)
	}
	purged := 0
	for _, obj := range objects {
		if obj.IsDir() || !strings.HasSuffix(obj.Name(), ".json") {
			continue
		}
		if err := q.fs.Delete(ctx, obj.URL()); err != nil {
			return purged, fmt.Errorf("failed to purge message %s: %w", obj.Name(), err)
		}
		purged++
	}
	return purged, nil
}

// completeMessage moves a message to the completed directory
func (q *Queue[T]) completeMessage(ctx context.Context, m *Message[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal completed message: %w", err)
	}

	filename := q.generateFilename(m.ID)
	if err := q.uploadMessage(ctx, path.Join(q.completedDir, filename), data); err != nil {
		return fmt.Errorf("failed to write message to completed directory: %w", err)
	}
	return q.removeProcessing(ctx, filename)
}

// failMessage moves a terminally failed message to the DLQ
func (q *Queue[T]) failMessage(ctx context.Context, m *Message[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal failed message: %w", err)
	}

	filename := q.generateFilename(m.ID)
	if err := q.uploadMessage(ctx, path.Join(q.dlqDir, filename), data); err != nil {
		return fmt.Errorf("failed to write message to DLQ: %w", err)
	}
	return q.removeProcessing(ctx, filename)
}

func (q *Queue[T]) removeProcessing(ctx context.Context, filename string) error {
	processingPath := path.Join(q.processingDir, filename)
	if exists, _ := q.fs.Exists(ctx, processingPath); exists {
		if err := q.fs.Delete(ctx, processingPath); err != nil {
			return fmt.Errorf("failed to delete message from processing directory: %w", err)
		}
	}
	return nil
}

// generateFilename generates a consistent filename for a message
func (q *Queue[T]) generateFilename(id string) string {
	return fmt.Sprintf("%s.json", id)
}

// uploadMessage abstracts the common operation of uploading message data
func (q *Queue[T]) uploadMessage(ctx context.Context, path string, data []byte) error {
	return q.fs.Upload(ctx, path, file.DefaultFileOsMode, bytes.NewBuffer(data))
}

// readMessageFromURL abstracts the common operation of reading and unmarshaling a message
func (q *Queue[T]) readMessageFromURL(ctx context.Context, url string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", url, err)
	}

	var message Message[T]
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", url, err)
	}
	return &message, nil
}

// ensure Queue implements messaging interfaces
var (
	_ messaging.Queue[any] = (*Queue[any])(nil)
	_ messaging.Purger     = (*Queue[any])(nil)
)
