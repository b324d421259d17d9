package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/outreach/internal/clock"
)

func TestService_AcquireRelease(t *testing.T) {
	service := New()
	ctx := context.Background()

	acquired, err := service.Acquire(ctx, "send:u1:j1", "task-1", 10*time.Minute)
	assert.NoError(t, err)
	assert.True(t, acquired)

	// second holder is refused while the lock is live
	acquired, err = service.Acquire(ctx, "send:u1:j1", "task-2", 10*time.Minute)
	assert.NoError(t, err)
	assert.False(t, acquired)

	// a different key is independent
	acquired, err = service.Acquire(ctx, "send:u1:j2", "task-2", 10*time.Minute)
	assert.NoError(t, err)
	assert.True(t, acquired)

	// only the owner releases
	assert.NoError(t, service.Release(ctx, "send:u1:j1", "task-2"))
	acquired, _ = service.Acquire(ctx, "send:u1:j1", "task-3", 10*time.Minute)
	assert.False(t, acquired)

	assert.NoError(t, service.Release(ctx, "send:u1:j1", "task-1"))
	acquired, _ = service.Acquire(ctx, "send:u1:j1", "task-3", 10*time.Minute)
	assert.True(t, acquired)
}

func TestService_TTLExpiry(t *testing.T) {
	service := New()
	ctx := context.Background()

	base := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return base }
	defer func() { clock.NowFunc = time.Now }()

	acquired, err := service.Acquire(ctx, "send:u1:j1", "task-1", 10*time.Minute)
	assert.NoError(t, err)
	assert.True(t, acquired)

	// still held just before expiry
	clock.NowFunc = func() time.Time { return base.Add(9 * time.Minute) }
	acquired, _ = service.Acquire(ctx, "send:u1:j1", "task-2", 10*time.Minute)
	assert.False(t, acquired)

	// self-heals after TTL
	clock.NowFunc = func() time.Time { return base.Add(11 * time.Minute) }
	acquired, _ = service.Acquire(ctx, "send:u1:j1", "task-2", 10*time.Minute)
	assert.True(t, acquired)
}
