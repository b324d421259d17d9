package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_Eligible(t *testing.T) {
	testCases := []struct {
		name     string
		user     User
		expected bool
	}{
		{
			name:     "active subscriber",
			user:     User{ID: "u1", Active: true, SubscriptionActive: true},
			expected: true,
		},
		{
			name:     "inactive user",
			user:     User{ID: "u1", Active: false, SubscriptionActive: true},
			expected: false,
		},
		{
			name:     "lapsed subscription",
			user:     User{ID: "u1", Active: true, SubscriptionActive: false},
			expected: false,
		},
		{
			name:     "disabled by admin",
			user:     User{ID: "u1", Active: true, SubscriptionActive: true, DisabledByAdmin: true},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.user.Eligible())
		})
	}
}

func TestUser_Validate(t *testing.T) {
	assert.Error(t, (&User{}).Validate())
	assert.Error(t, (&User{ID: "u1"}).Validate())
	assert.NoError(t, (&User{ID: "u1", Category: "Software Developer"}).Validate())
}

func TestJob_WasAppliedBy(t *testing.T) {
	job := &Job{ID: "j1", AppliedBy: []UserID{"u1", "u2"}}
	assert.True(t, job.WasAppliedBy("u1"))
	assert.False(t, job.WasAppliedBy("u3"))
}

func TestJob_Validate(t *testing.T) {
	assert.Error(t, (&Job{}).Validate())
	assert.Error(t, (&Job{ID: "j1"}).Validate())
	assert.NoError(t, (&Job{ID: "j1", Category: "Software Developer"}).Validate())
}

func TestAssignments_Total(t *testing.T) {
	assignments := Assignments{
		"u1": {{Job: &Job{ID: "j1"}}, {Job: &Job{ID: "j2"}}},
		"u2": {{Job: &Job{ID: "j1"}, SharePosition: 1}},
	}
	assert.Equal(t, 3, assignments.Total())
	assert.Equal(t, 0, Assignments{}.Total())
}

func TestSendInstruction_PairKey(t *testing.T) {
	instruction := &SendInstruction{UserID: "u1", JobID: "j9"}
	assert.Equal(t, "send:u1:j9", instruction.PairKey())
}
