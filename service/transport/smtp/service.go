// Package smtp provides a transport.Service delivering mail through the
// user's own mailbox over implicit TLS. The optional PDF attachment is
// fetched from its storage URL just before the send.
package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/outreach/service/transport"
)

const (
	defaultHost        = "smtp.gmail.com"
	defaultPort        = 465
	defaultDialTimeout = 30 * time.Second
	attachmentName     = "resume.pdf"
)

// Service is an SMTP transport.
type Service struct {
	host        string
	port        int
	dialTimeout time.Duration
	fs          afs.Service
}

// Option customizes the SMTP transport.
type Option func(*Service)

// WithServer overrides the SMTP host and port.
func WithServer(host string, port int) Option {
	return func(s *Service) {
		s.host = host
		s.port = port
	}
}

// WithDialTimeout bounds the TLS dial.
func WithDialTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.dialTimeout = timeout
	}
}

// New creates an SMTP transport.
func New(opts ...Option) *Service {
	ret := &Service{
		host:        defaultHost,
		port:        defaultPort,
		dialTimeout: defaultDialTimeout,
		fs:          afs.New(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Send implements transport.Service.
func (s *Service) Send(ctx context.Context, request *transport.Request) (*transport.Result, error) {
	var attachment []byte
	if request.AttachmentURL != "" {
		data, err := s.fs.DownloadWithURL(ctx, request.AttachmentURL)
		if err != nil {
			// a missing attachment degrades the email, it does not block it
			attachment = nil
		} else {
			attachment = data
		}
	}
	payload, err := buildMessage(request, attachment)
	if err != nil {
		return nil, err
	}
	if err := s.deliver(ctx, request, payload); err != nil {
		return nil, classify(err)
	}
	return &transport.Result{Response: "250 OK"}, nil
}

func (s *Service) deliver(ctx context.Context, request *transport.Request, payload []byte) error {
	address := fmt.Sprintf("%s:%d", s.host, s.port)
	dialer := &net.Dialer{Timeout: s.dialTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", address, &tls.Config{ServerName: s.host})
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", address, err)
	}
	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open smtp session with %s: %w", address, err)
	}
	defer client.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	auth := smtp.PlainAuth("", request.From, request.Password, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate %s: %w", request.From, err)
	}
	if err := client.Mail(request.From); err != nil {
		return fmt.Errorf("sender %s rejected: %w", request.From, err)
	}
	if err := client.Rcpt(request.To); err != nil {
		return fmt.Errorf("recipient %s rejected: %w", request.To, err)
	}
	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data stream: %w", err)
	}
	if _, err := writer.Write(payload); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("server rejected message: %w", err)
	}
	return client.Quit()
}

// buildMessage assembles a multipart/mixed MIME message with a plain text
// body and an optional PDF attachment.
func buildMessage(request *transport.Request, attachment []byte) ([]byte, error) {
	buffer := new(bytes.Buffer)
	multipartWriter := multipart.NewWriter(buffer)

	headers := []string{
		"From: " + request.From,
		"To: " + request.To,
		"Subject: " + request.Subject,
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="` + multipartWriter.Boundary() + `"`,
	}
	var head bytes.Buffer
	for _, header := range headers {
		head.WriteString(header)
		head.WriteString("\r\n")
	}
	head.WriteString("\r\n")

	bodyPart, err := multipartWriter.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/plain; charset="utf-8"`},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create body part: %w", err)
	}
	if _, err := bodyPart.Write([]byte(request.Body)); err != nil {
		return nil, fmt.Errorf("failed to write body: %w", err)
	}

	if len(attachment) > 0 {
		part, err := multipartWriter.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {"application/pdf"},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {`attachment; filename="` + attachmentName + `"`},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment part: %w", err)
		}
		encoded := base64.StdEncoding.EncodeToString(attachment)
		// 76 char lines per RFC 2045
		for len(encoded) > 0 {
			line := encoded
			if len(line) > 76 {
				line = line[:76]
			}
			if _, err := part.Write([]byte(line + "\r\n")); err != nil {
				return nil, fmt.Errorf("failed to write attachment: %w", err)
			}
			encoded = encoded[len(line):]
		}
	}
	if err := multipartWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize message: %w", err)
	}
	return append(head.Bytes(), buffer.Bytes()...), nil
}

// classify maps SMTP failures onto the transport error taxonomy:
// authentication rejections become transport.ErrAuthentication, everything
// else stays transient.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 535, 534, 530:
			return fmt.Errorf("%w: %v", transport.ErrAuthentication, err)
		}
	}
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "username and password not accepted") ||
		strings.Contains(lower, "authentication failed") ||
		strings.Contains(lower, "invalid credentials") {
		return fmt.Errorf("%w: %v", transport.ErrAuthentication, err)
	}
	return err
}

var _ transport.Service = (*Service)(nil)
