// Package transport defines the outbound mail contract.
package transport

import (
	"context"
	"errors"
)

// ErrAuthentication signals the mailbox rejected the supplied credentials.
// It is terminal for the user: retrying cannot succeed until the user
// updates the stored credential.
var ErrAuthentication = errors.New("mail authentication failed")

// Request carries everything needed for one send. Password is resolved
// just-in-time and must not be retained past the call.
type Request struct {
	From          string
	Password      string
	To            string
	Subject       string
	Body          string
	AttachmentURL string
}

// Result reports the server acknowledgement of a delivered message.
type Result struct {
	Response string
}

// Service delivers mail. A nil error means the server accepted the message;
// errors wrapping ErrAuthentication are terminal, everything else is
// transient.
type Service interface {
	Send(ctx context.Context, request *Request) (*Result, error)
}
