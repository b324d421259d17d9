// Package notifier is the operator surface for delivery failures. The
// default implementation writes structured log events; deployments plug in
// their own channel (chat webhook, pager) behind the same interface.
package notifier

import (
	"context"

	"github.com/viant/outreach/model"
	"go.uber.org/zap"
)

// Service receives failure notifications.
type Service interface {
	// JobFailed reports a terminally failed send for a user/job pair.
	JobFailed(ctx context.Context, userID model.UserID, jobID model.JobID, reason string, err error)

	// AuthFailure reports that a user's mail credentials were rejected and
	// their automation has been paused.
	AuthFailure(ctx context.Context, userID model.UserID, err error)
}

// Logger is a zap-backed Service.
type Logger struct {
	logger *zap.SugaredLogger
}

// NewLogger creates a log-based notifier.
func NewLogger(logger *zap.SugaredLogger) *Logger {
	return &Logger{logger: logger}
}

// JobFailed implements Service.
func (l *Logger) JobFailed(ctx context.Context, userID model.UserID, jobID model.JobID, reason string, err error) {
	l.logger.Errorw("application failed",
		"user", userID,
		"job", jobID,
		"reason", reason,
		"error", err,
	)
}

// AuthFailure implements Service.
func (l *Logger) AuthFailure(ctx context.Context, userID model.UserID, err error) {
	l.logger.Errorw("mail authentication failed, automation paused",
		"user", userID,
		"error", err,
	)
}

var _ Service = (*Logger)(nil)
