package template

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/outreach/model"
)

func TestService_Compose(t *testing.T) {
	user := &model.User{ID: "u1", Name: "Ada Lovelace", Email: "ada@example.com", Category: "backend"}
	job := &model.Job{ID: "j1", Title: "Go Engineer", Company: "Acme", Category: "backend", RecruiterEmail: "hr@acme.io"}

	srv, err := New("", "")
	assert.Nil(t, err)
	email, err := srv.Compose(context.Background(), user, job)
	assert.Nil(t, err)
	assert.Equal(t, "Application for Go Engineer at Acme", email.Subject)
	assert.True(t, strings.Contains(email.Body, "Go Engineer"))
	assert.True(t, strings.Contains(email.Body, "Ada Lovelace"))

	// no company, no name: fall back gracefully
	job.Company = ""
	user.Name = ""
	email, err = srv.Compose(context.Background(), user, job)
	assert.Nil(t, err)
	assert.Equal(t, "Application for Go Engineer", email.Subject)
	assert.True(t, strings.Contains(email.Body, "ada@example.com"))
}

func TestService_Compose_custom(t *testing.T) {
	srv, err := New("{{.Job.Title}} / {{.User.Category}}", "hello {{.User.ID}}")
	assert.Nil(t, err)
	email, err := srv.Compose(context.Background(),
		&model.User{ID: "u1", Category: "design"},
		&model.Job{ID: "j1", Title: "UX Lead"})
	assert.Nil(t, err)
	assert.Equal(t, "UX Lead / design", email.Subject)
	assert.Equal(t, "hello u1", email.Body)
}

func TestNew_invalidTemplate(t *testing.T) {
	_, err := New("{{.Job.Title", "")
	assert.NotNil(t, err)
}
