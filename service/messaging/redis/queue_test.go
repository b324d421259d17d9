package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQueue_Keys(t *testing.T) {
	queue := NewQueue[struct{}](nil, QueueConfig{Namespace: "myapp", Name: "send"})
	assert.Equal(t, "myapp:queue:send", queue.jobsKey)
	assert.Equal(t, "myapp:queue:send:scheduled", queue.scheduledKey)
	assert.Equal(t, "myapp:queue:send:inprogress", queue.inProgressKey)
	assert.Equal(t, "myapp:queue:send:dead", queue.deadKey)
}

func TestNewQueue_Defaults(t *testing.T) {
	queue := NewQueue[struct{}](nil, QueueConfig{})
	assert.Equal(t, "outreach:queue:send", queue.jobsKey)
}
