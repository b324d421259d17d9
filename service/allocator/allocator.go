// Package allocator implements demand-supply job distribution. When the job
// pool is short of the per-user target it shares jobs across users, up to a
// sharing cap, so every user still gets close to the daily minimum.
package allocator

import (
	"math"
	"math/rand"
	"sort"

	"github.com/viant/outreach/model"
)

// Targets bounds one distribution cycle.
type Targets struct {
	// TargetMin is the per-user daily count the allocator aims for before
	// it starts sharing jobs.
	TargetMin int `json:"targetMin" yaml:"targetMin"`
	// TargetMax caps the jobs one user receives per cycle.
	TargetMax int `json:"targetMax" yaml:"targetMax"`
	// MaxSharing caps how many distinct users one job may be assigned to.
	MaxSharing int `json:"maxSharing" yaml:"maxSharing"`
}

// DefaultTargets returns the production distribution bounds.
func DefaultTargets() Targets {
	return Targets{TargetMin: 15, TargetMax: 20, MaxSharing: 3}
}

// Service computes fair job-to-user assignments for one category.
type Service struct {
	targets Targets
	random  *rand.Rand
}

// Option customizes the allocator.
type Option func(*Service)

// WithTargets overrides the distribution bounds.
func WithTargets(targets Targets) Option {
	return func(s *Service) {
		s.targets = targets
	}
}

// WithRand injects the randomness source, making shuffles deterministic
// under test.
func WithRand(random *rand.Rand) Option {
	return func(s *Service) {
		s.random = random
	}
}

// New creates an allocator.
func New(opts ...Option) *Service {
	ret := &Service{targets: DefaultTargets()}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.random == nil {
		ret.random = rand.New(rand.NewSource(rand.Int63()))
	}
	return ret
}

// shareState tracks the users sharing one job within a cycle.
type shareState struct {
	group int
	users []model.UserID
}

// Distribute maps jobs to users for one category. Inputs are snapshots; the
// allocator keeps its applied-by bookkeeping on local copies and never
// mutates the supplied jobs. A job a user has historically applied to is
// never assigned to that user again.
func (s *Service) Distribute(users []*model.User, jobs []*model.Job) model.Assignments {
	assignments := model.Assignments{}
	for _, user := range users {
		assignments[user.ID] = nil
	}
	if len(users) == 0 || len(jobs) == 0 {
		return assignments
	}

	// local copies: applied-by bookkeeping below must not leak into the
	// persisted snapshots
	pool := make([]*model.Job, len(jobs))
	for i, job := range jobs {
		shadow := *job
		shadow.AppliedBy = append([]model.UserID(nil), job.AppliedBy...)
		pool[i] = &shadow
	}
	s.random.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	sharingFactor, targetPerUser := s.mode(len(users), len(pool))

	slots := make(map[model.JobID]int, len(pool))
	for _, job := range pool {
		slots[job.ID] = sharingFactor
	}
	shareGroups := make(map[model.JobID]*shareState)
	shareGroupCounter := 0
	counts := make(map[model.UserID]int, len(users))

	ordered := make([]*model.User, len(users))
	copy(ordered, users)

	for changed := true; changed; {
		changed = false
		// fewest assignments first; stable keeps the input order as the
		// tie-break
		sort.SliceStable(ordered, func(i, j int) bool {
			return counts[ordered[i].ID] < counts[ordered[j].ID]
		})
		for _, user := range ordered {
			if counts[user.ID] >= targetPerUser {
				continue
			}
			for _, job := range pool {
				if slots[job.ID] <= 0 {
					continue
				}
				if job.WasAppliedBy(user.ID) {
					continue
				}
				state, ok := shareGroups[job.ID]
				if !ok {
					shareGroupCounter++
					state = &shareState{group: shareGroupCounter}
					shareGroups[job.ID] = state
				}
				position := len(state.users)
				state.users = append(state.users, user.ID)

				assignments[user.ID] = append(assignments[user.ID], model.AssignedJob{
					Job:           job,
					ShareGroup:    state.group,
					SharePosition: position,
				})
				slots[job.ID]--
				counts[user.ID]++
				job.AppliedBy = append(job.AppliedBy, user.ID)
				changed = true
				break
			}
		}
	}
	return assignments
}

// mode selects the sharing factor and per-user target from the job/user
// ratio.
func (s *Service) mode(totalUsers, totalJobs int) (sharingFactor, targetPerUser int) {
	ratio := float64(totalJobs) / float64(totalUsers)
	switch {
	case ratio >= float64(s.targets.TargetMax):
		return 1, s.targets.TargetMax
	case ratio >= float64(s.targets.TargetMin):
		return 1, int(ratio)
	default:
		sharingFactor = int(math.Ceil(float64(s.targets.TargetMin) / ratio))
		if sharingFactor > s.targets.MaxSharing {
			sharingFactor = s.targets.MaxSharing
		}
		// ceil so the shared slot pool can be fully consumed even when
		// ratio*sharingFactor is fractional
		targetPerUser = int(math.Ceil(ratio * float64(sharingFactor)))
		if targetPerUser > s.targets.TargetMin {
			targetPerUser = s.targets.TargetMin
		}
		return sharingFactor, targetPerUser
	}
}
