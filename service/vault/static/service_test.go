package static

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/outreach/model"
)

func TestService_Reveal(t *testing.T) {
	srv := New(map[string]string{"mem://secrets/u1.json": "s3cret"})

	password, err := srv.Reveal(context.Background(), &model.CredentialRef{URL: "mem://secrets/u1.json"})
	assert.Nil(t, err)
	assert.Equal(t, "s3cret", password)

	_, err = srv.Reveal(context.Background(), &model.CredentialRef{URL: "mem://secrets/unknown.json"})
	assert.NotNil(t, err)

	_, err = srv.Reveal(context.Background(), nil)
	assert.NotNil(t, err)
}
