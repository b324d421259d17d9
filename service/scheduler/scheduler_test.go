package scheduler

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/messaging"
)

// captureQueue records published instructions and their delays.
type captureQueue struct {
	instructions []*model.SendInstruction
	delays       []time.Duration
}

func (q *captureQueue) Publish(ctx context.Context, instruction *model.SendInstruction, options ...messaging.Option) error {
	q.instructions = append(q.instructions, instruction)
	q.delays = append(q.delays, messaging.NewPublishOptions(options...).Delay)
	return nil
}

func (q *captureQueue) Consume(ctx context.Context) (messaging.Message[model.SendInstruction], error) {
	return nil, nil
}

func newService(queue messaging.Queue[model.SendInstruction]) *Service {
	return New(queue, WithRand(rand.New(rand.NewSource(7))))
}

func TestService_Schedule(t *testing.T) {
	queue := &captureQueue{}
	srv := newService(queue)

	job := func(id string, position int) model.AssignedJob {
		return model.AssignedJob{
			Job:           &model.Job{ID: model.JobID(id), Category: "backend", RecruiterEmail: "hr@acme.io"},
			ShareGroup:    1,
			SharePosition: position,
		}
	}
	assignments := model.Assignments{
		"u1": {job("j1", 0), job("j2", 0), job("j3", 0)},
		"u2": nil,
	}
	queued, err := srv.Schedule(context.Background(), assignments)
	assert.Nil(t, err)
	assert.Equal(t, 3, queued)
	assert.Equal(t, 3, len(queue.instructions))

	for i, instruction := range queue.instructions {
		assert.EqualValues(t, "u1", instruction.UserID)
		delay := queue.delays[i]
		// userOffset [0,600s) + spacing [120s,300s]*(i+1), no stagger
		min := time.Duration(i+1) * 120 * time.Second
		max := 600*time.Second + time.Duration(i+1)*300*time.Second
		assert.True(t, delay >= min && delay <= max, "instruction %v delay %v", i, delay)
		assert.False(t, instruction.NotBefore.IsZero())
	}
}

func TestService_Schedule_stagger(t *testing.T) {
	srv := newService(&captureQueue{})

	for i := 0; i < 50; i++ {
		assert.Equal(t, time.Duration(0), srv.stagger(0))

		tier1 := srv.stagger(1)
		assert.True(t, tier1 >= 3*time.Hour && tier1 <= 4*time.Hour, "tier 1 stagger %v", tier1)

		tier2 := srv.stagger(2)
		assert.True(t, tier2 >= 6*time.Hour && tier2 <= 8*time.Hour, "tier 2 stagger %v", tier2)

		// positions past the last tier reuse it
		deep := srv.stagger(5)
		assert.True(t, deep >= 6*time.Hour && deep <= 8*time.Hour, "deep stagger %v", deep)
	}
}

func TestService_Schedule_sharedDelays(t *testing.T) {
	queue := &captureQueue{}
	srv := newService(queue)

	assignments := model.Assignments{
		"u1": {{
			Job:           &model.Job{ID: "j1", Category: "backend", RecruiterEmail: "hr@acme.io"},
			ShareGroup:    1,
			SharePosition: 2,
		}},
	}
	_, err := srv.Schedule(context.Background(), assignments)
	assert.Nil(t, err)
	if assert.Equal(t, 1, len(queue.delays)) {
		// stagger tier 2 dominates: delay must be at least 6h
		assert.True(t, queue.delays[0] >= 6*time.Hour, "delay %v", queue.delays[0])
		assert.True(t, queue.delays[0] <= 8*time.Hour+600*time.Second+300*time.Second, "delay %v", queue.delays[0])
	}
}
