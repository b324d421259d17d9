package mem

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/outreach/internal/clock"
	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/catalog"
)

func TestService_TodaysJobs(t *testing.T) {
	srv := New(
		&model.Job{ID: "j1", Category: "backend", RecruiterEmail: "hr@acme.io"},
		&model.Job{ID: "j2", Category: "backend"},
		&model.Job{ID: "j3", Category: "design", RecruiterEmail: "talent@initech.io"},
	)
	jobs, err := srv.TodaysJobs(context.Background())
	assert.Nil(t, err)
	var ids []model.JobID
	for _, job := range jobs {
		ids = append(ids, job.ID)
	}
	// j2 has no recruiter email and must not surface
	assert.ElementsMatch(t, []model.JobID{"j1", "j3"}, ids)

	byCategory, err := srv.TodaysJobsByCategory(context.Background(), "design")
	assert.Nil(t, err)
	if assert.Equal(t, 1, len(byCategory)) {
		assert.EqualValues(t, "j3", byCategory[0].ID)
	}
}

func TestService_TodaysJobs_dayScope(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return now }
	defer func() { clock.NowFunc = time.Now }()

	srv := New(
		&model.Job{ID: "today", Category: "backend", RecruiterEmail: "hr@acme.io", DiscoveredAt: now.Add(-2 * time.Hour)},
		&model.Job{ID: "yesterday", Category: "backend", RecruiterEmail: "hr@acme.io", DiscoveredAt: now.Add(-24 * time.Hour)},
		&model.Job{ID: "unstamped", Category: "backend", RecruiterEmail: "hr@acme.io"},
	)
	jobs, err := srv.TodaysJobs(context.Background())
	assert.Nil(t, err)
	var ids []model.JobID
	for _, job := range jobs {
		ids = append(ids, job.ID)
	}
	assert.ElementsMatch(t, []model.JobID{"today", "unstamped"}, ids)
}

func TestService_RecordApplication(t *testing.T) {
	srv := New(&model.Job{ID: "j1", Category: "backend", RecruiterEmail: "hr@acme.io"})

	assert.Nil(t, srv.RecordApplication(context.Background(), "j1", "u1"))
	assert.Nil(t, srv.RecordApplication(context.Background(), "j1", "u2"))
	assert.Nil(t, srv.RecordApplication(context.Background(), "j1", "u1"))

	job, err := srv.Lookup(context.Background(), "j1")
	assert.Nil(t, err)
	assert.ElementsMatch(t, []model.UserID{"u1", "u2"}, job.AppliedBy)
	assert.Equal(t, 3, job.ApplicationCount)

	err = srv.RecordApplication(context.Background(), "missing", "u1")
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestService_Lookup_snapshot(t *testing.T) {
	srv := New(&model.Job{ID: "j1", Category: "backend", RecruiterEmail: "hr@acme.io", AppliedBy: []model.UserID{"u1"}})
	job, err := srv.Lookup(context.Background(), "j1")
	assert.Nil(t, err)

	job.AppliedBy[0] = "mutated"
	again, err := srv.Lookup(context.Background(), "j1")
	assert.Nil(t, err)
	assert.EqualValues(t, "u1", again.AppliedBy[0])
}
