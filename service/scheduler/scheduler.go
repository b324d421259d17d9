// Package scheduler turns an allocation into time-staggered send
// instructions on the task queue. Delays keep a user's own sends minutes
// apart and push later applicants to a shared job hours out, so one
// recruiter never sees a burst of near-duplicate emails.
package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/viant/outreach/internal/clock"
	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/messaging"
	"go.uber.org/zap"
)

const (
	// maxUserOffset desynchronizes different users' first send.
	maxUserOffset = 600 * time.Second
	// minSpacing/maxSpacing bound the gap between one user's consecutive
	// sends; the gap compounds by position.
	minSpacing = 120 * time.Second
	maxSpacing = 300 * time.Second
)

// staggerTiers bound the extra delay per share position; later applicants to
// a shared job go out hours after the first.
var staggerTiers = []struct{ low, high time.Duration }{
	{0, 0},
	{3 * time.Hour, 4 * time.Hour},
	{6 * time.Hour, 8 * time.Hour},
}

// Service enqueues one send instruction per assignment.
type Service struct {
	queue  messaging.Queue[model.SendInstruction]
	random *rand.Rand
	logger *zap.SugaredLogger
}

// Option customizes the scheduler.
type Option func(*Service)

// WithRand injects the randomness source, making delays deterministic under
// test.
func WithRand(random *rand.Rand) Option {
	return func(s *Service) {
		s.random = random
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a scheduler publishing to the supplied queue.
func New(queue messaging.Queue[model.SendInstruction], opts ...Option) *Service {
	ret := &Service{queue: queue}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.random == nil {
		ret.random = rand.New(rand.NewSource(rand.Int63()))
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop().Sugar()
	}
	return ret
}

// Schedule publishes one SendInstruction per assignment, each deferred by
// userOffset + positional spacing + share stagger. Publishing is
// fire-and-forget; delivery order past notBefore is approximate.
func (s *Service) Schedule(ctx context.Context, assignments model.Assignments) (int, error) {
	queued := 0
	now := clock.Now()
	for userID, assigned := range assignments {
		if len(assigned) == 0 {
			continue
		}
		userOffset := time.Duration(s.random.Int63n(int64(maxUserOffset)))
		for i, item := range assigned {
			delay := userOffset + s.spacing(i) + s.stagger(item.SharePosition)
			instruction := &model.SendInstruction{
				UserID:    userID,
				JobID:     item.Job.ID,
				NotBefore: now.Add(delay),
			}
			if err := s.queue.Publish(ctx, instruction, messaging.WithDelay(delay)); err != nil {
				return queued, fmt.Errorf("failed to publish instruction for %v: %w", instruction.PairKey(), err)
			}
			s.logger.Debugw("queued send instruction",
				"user", userID,
				"job", item.Job.ID,
				"delay", delay,
				"sharePosition", item.SharePosition,
			)
			queued++
		}
	}
	return queued, nil
}

// spacing spreads one user's sends apart; the gap compounds by position so
// instruction i goes out after roughly (i+1) gaps.
func (s *Service) spacing(position int) time.Duration {
	gap := minSpacing + time.Duration(s.random.Int63n(int64(maxSpacing-minSpacing)+1))
	return gap * time.Duration(position+1)
}

// stagger draws the extra delay for a shared job from the tier keyed by
// share position.
func (s *Service) stagger(sharePosition int) time.Duration {
	tier := sharePosition
	if tier >= len(staggerTiers) {
		tier = len(staggerTiers) - 1
	}
	bounds := staggerTiers[tier]
	if bounds.high == 0 {
		return 0
	}
	return bounds.low + time.Duration(s.random.Int63n(int64(bounds.high-bounds.low)+1))
}
