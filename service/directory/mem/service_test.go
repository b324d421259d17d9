package mem

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/directory"
)

func TestService_ActiveUsers(t *testing.T) {
	srv := New(
		&model.User{ID: "u1", Category: "backend", Active: true, SubscriptionActive: true},
		&model.User{ID: "u2", Category: "backend", Active: false, SubscriptionActive: true},
		&model.User{ID: "u3", Category: "backend", Active: true, SubscriptionActive: false},
		&model.User{ID: "u4", Category: "design", Active: true, SubscriptionActive: true, DisabledByAdmin: true},
		&model.User{ID: "u5", Category: "design", Active: true, SubscriptionActive: true},
	)
	users, err := srv.ActiveUsers(context.Background())
	assert.Nil(t, err)
	var ids []model.UserID
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	assert.ElementsMatch(t, []model.UserID{"u1", "u5"}, ids)

	byCategory, err := srv.ActiveUsersByCategory(context.Background(), "design")
	assert.Nil(t, err)
	if assert.Equal(t, 1, len(byCategory)) {
		assert.EqualValues(t, "u5", byCategory[0].ID)
	}
}

func TestService_Lookup(t *testing.T) {
	srv := New(&model.User{ID: "u1", Category: "backend", Active: true, SubscriptionActive: true})

	user, err := srv.Lookup(context.Background(), "u1")
	assert.Nil(t, err)
	assert.EqualValues(t, "u1", user.ID)

	// lookup returns a snapshot, mutating it must not leak back
	user.Active = false
	again, err := srv.Lookup(context.Background(), "u1")
	assert.Nil(t, err)
	assert.True(t, again.Active)

	_, err = srv.Lookup(context.Background(), "missing")
	assert.True(t, errors.Is(err, directory.ErrNotFound))
}

func TestService_RecordSent(t *testing.T) {
	srv := New(&model.User{ID: "u1", Category: "backend", Active: true, SubscriptionActive: true, SentTotal: 41})
	assert.Nil(t, srv.RecordSent(context.Background(), "u1"))
	assert.Nil(t, srv.RecordSent(context.Background(), "u1"))
	user, err := srv.Lookup(context.Background(), "u1")
	assert.Nil(t, err)
	assert.Equal(t, 2, user.SentToday)
	assert.Equal(t, 43, user.SentTotal)

	assert.NotNil(t, srv.RecordSent(context.Background(), "missing"))
}

func TestService_PauseAutomation(t *testing.T) {
	srv := New(&model.User{ID: "u1", Category: "backend", Active: true, SubscriptionActive: true})
	assert.Nil(t, srv.PauseAutomation(context.Background(), "u1", "authentication failed"))
	users, err := srv.ActiveUsers(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 0, len(users))
}
