package smtp

import (
	"errors"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/outreach/service/transport"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		description string
		err         error
		wantAuth    bool
	}{
		{
			description: "535 reply is an authentication failure",
			err:         &textproto.Error{Code: 535, Msg: "5.7.8 Username and Password not accepted"},
			wantAuth:    true,
		},
		{
			description: "wrapped 535 reply",
			err:         errorsWrap(&textproto.Error{Code: 535, Msg: "5.7.8 bad credentials"}),
			wantAuth:    true,
		},
		{
			description: "530 auth required",
			err:         &textproto.Error{Code: 530, Msg: "5.7.0 Authentication Required"},
			wantAuth:    true,
		},
		{
			description: "textual auth rejection without reply code",
			err:         errors.New("Username and Password not accepted"),
			wantAuth:    true,
		},
		{
			description: "transient server error stays transient",
			err:         &textproto.Error{Code: 451, Msg: "4.3.0 try again later"},
			wantAuth:    false,
		},
		{
			description: "network timeout stays transient",
			err:         errors.New("dial tcp: i/o timeout"),
			wantAuth:    false,
		},
	}
	for _, testCase := range testCases {
		classified := classify(testCase.err)
		assert.Equal(t, testCase.wantAuth, errors.Is(classified, transport.ErrAuthentication), testCase.description)
	}
	assert.Nil(t, classify(nil))
}

func errorsWrap(err error) error {
	return &wrapped{err: err}
}

type wrapped struct {
	err error
}

func (w *wrapped) Error() string { return "send failed: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }

func TestBuildMessage(t *testing.T) {
	request := &transport.Request{
		From:    "ada@example.com",
		To:      "hr@acme.io",
		Subject: "Application for Go Engineer",
		Body:    "Dear Hiring Team,",
	}
	payload, err := buildMessage(request, nil)
	assert.Nil(t, err)
	message := string(payload)
	assert.True(t, strings.Contains(message, "From: ada@example.com"))
	assert.True(t, strings.Contains(message, "To: hr@acme.io"))
	assert.True(t, strings.Contains(message, "Subject: Application for Go Engineer"))
	assert.True(t, strings.Contains(message, "multipart/mixed"))
	assert.True(t, strings.Contains(message, "Dear Hiring Team,"))
	assert.False(t, strings.Contains(message, "application/pdf"))

	payload, err = buildMessage(request, []byte("%PDF-1.4 fake"))
	assert.Nil(t, err)
	message = string(payload)
	assert.True(t, strings.Contains(message, "application/pdf"))
	assert.True(t, strings.Contains(message, `filename="resume.pdf"`))
	assert.True(t, strings.Contains(message, "base64"))
}
