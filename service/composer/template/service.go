// Package template provides the default composer.Service rendering subject
// and body from text templates.
package template

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/composer"
)

const (
	defaultSubject = `Application for {{.Job.Title}}{{if .Job.Company}} at {{.Job.Company}}{{end}}`
	defaultBody    = `Dear Hiring Team,

I came across the {{.Job.Title}} opening{{if .Job.Company}} at {{.Job.Company}}{{end}} and would like to apply.

Please find my resume attached. I would welcome the chance to discuss how my background fits this role.

Best regards,
{{if .User.Name}}{{.User.Name}}{{else}}{{.User.Email}}{{end}}
`
)

type binding struct {
	User *model.User
	Job  *model.Job
}

// Service renders emails from parsed templates.
type Service struct {
	subject *template.Template
	body    *template.Template
}

// New creates a template composer; empty templates fall back to defaults.
func New(subject, body string) (*Service, error) {
	if subject == "" {
		subject = defaultSubject
	}
	if body == "" {
		body = defaultBody
	}
	subjectTmpl, err := template.New("subject").Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subject template: %w", err)
	}
	bodyTmpl, err := template.New("body").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse body template: %w", err)
	}
	return &Service{subject: subjectTmpl, body: bodyTmpl}, nil
}

// Compose implements composer.Service.
func (s *Service) Compose(ctx context.Context, user *model.User, job *model.Job) (*composer.Email, error) {
	data := &binding{User: user, Job: job}
	subject := new(bytes.Buffer)
	if err := s.subject.Execute(subject, data); err != nil {
		return nil, fmt.Errorf("failed to render subject for job %v: %w", job.ID, err)
	}
	body := new(bytes.Buffer)
	if err := s.body.Execute(body, data); err != nil {
		return nil, fmt.Errorf("failed to render body for job %v: %w", job.ID, err)
	}
	return &composer.Email{Subject: subject.String(), Body: body.String()}, nil
}

var _ composer.Service = (*Service)(nil)
