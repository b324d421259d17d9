// Package sender consumes send instructions and turns each one into at most
// one attempted email. Idempotency rests on two layers: a TTL lock per
// (user, job) pair against concurrent delivery, and the ledger against
// repeats across cycles. Transient failures are re-published with
// exponential backoff; permanent failures leave exactly one ledger row.
package sender

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/viant/outreach/internal/clock"
	"github.com/viant/outreach/internal/idgen"
	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/catalog"
	"github.com/viant/outreach/service/composer"
	"github.com/viant/outreach/service/directory"
	"github.com/viant/outreach/service/ledger"
	"github.com/viant/outreach/service/messaging"
	"github.com/viant/outreach/service/mutex"
	"github.com/viant/outreach/service/notifier"
	"github.com/viant/outreach/service/transport"
	"github.com/viant/outreach/service/vault"
	"github.com/viant/outreach/tracing"
	"go.uber.org/zap"
)

// Service is the send worker pool.
type Service struct {
	config    Config
	queue     messaging.Queue[model.SendInstruction]
	locks     mutex.Service
	directory directory.Service
	catalog   catalog.Service
	ledger    ledger.Service
	composer  composer.Service
	vault     vault.Service
	transport transport.Service
	notifier  notifier.Service
	logger    *zap.SugaredLogger

	workers    []*worker
	workerWg   sync.WaitGroup
	shutdownCh chan struct{}
}

type worker struct {
	id       int
	service  *Service
	ctx      context.Context
	cancelFn context.CancelFunc
}

// New creates a send worker pool; all collaborators are required.
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.queue == nil {
		return nil, fmt.Errorf("message queue is required")
	}
	if s.locks == nil {
		return nil, fmt.Errorf("mutex service is required")
	}
	if s.directory == nil {
		return nil, fmt.Errorf("directory service is required")
	}
	if s.catalog == nil {
		return nil, fmt.Errorf("catalog service is required")
	}
	if s.ledger == nil {
		return nil, fmt.Errorf("ledger service is required")
	}
	if s.composer == nil {
		return nil, fmt.Errorf("composer service is required")
	}
	if s.vault == nil {
		return nil, fmt.Errorf("vault service is required")
	}
	if s.transport == nil {
		return nil, fmt.Errorf("transport service is required")
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	if s.notifier == nil {
		s.notifier = notifier.NewLogger(s.logger)
	}
	return s, nil
}

// Start launches the worker goroutines.
func (s *Service) Start(ctx context.Context) error {
	for i := 0; i < s.config.WorkerCount; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		worker := &worker{
			id:       i,
			service:  s,
			ctx:      workerCtx,
			cancelFn: cancel,
		}
		s.workers = append(s.workers, worker)
		s.workerWg.Add(1)
		go worker.run()
	}
	return nil
}

// Shutdown stops the workers and waits for in-flight instructions.
func (s *Service) Shutdown() {
	close(s.shutdownCh)
	for _, worker := range s.workers {
		worker.cancelFn()
	}
	s.workerWg.Wait()
}

func (w *worker) run() {
	defer w.service.workerWg.Done()
	for {
		select {
		case <-w.service.shutdownCh:
			return
		default:
		}
		msg, err := w.service.queue.Consume(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if msg == nil {
			// non-blocking queue with nothing due yet
			select {
			case <-w.ctx.Done():
				return
			case <-time.After(w.service.config.IdlePoll):
			}
			continue
		}
		if _, err := w.service.Process(w.ctx, msg); err != nil {
			w.service.logger.Errorw("failed to process instruction",
				"worker", w.id,
				"error", err,
			)
		}
	}
}

// Process resolves one delivered instruction. A nil error covers every
// outcome the state machine handles itself, including permanent failures; a
// non-nil error means infrastructure broke mid-flight and the message was
// nacked.
func (s *Service) Process(ctx context.Context, msg messaging.Message[model.SendInstruction]) (outcome *Outcome, err error) {
	instruction := msg.T()
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("sender.Process %v", instruction.PairKey()), "CONSUMER")
	defer tracing.EndSpan(span, err)
	span.WithAttributes(map[string]string{
		"send.user": string(instruction.UserID),
		"send.job":  string(instruction.JobID),
	})

	outcome, err = s.execute(ctx, instruction)
	if err != nil {
		if nackErr := msg.Nack(err); nackErr != nil {
			s.logger.Warnw("failed to nack instruction",
				"user", instruction.UserID,
				"job", instruction.JobID,
				"error", nackErr,
			)
		}
		return outcome, err
	}
	s.logger.Infow("instruction resolved",
		"user", instruction.UserID,
		"job", instruction.JobID,
		"attempt", instruction.Attempt,
		"status", outcome.Status,
		"reason", outcome.Reason,
	)
	return outcome, msg.Ack()
}

// execute runs the send state machine for one instruction.
func (s *Service) execute(ctx context.Context, instruction *model.SendInstruction) (*Outcome, error) {
	owner := idgen.New()
	acquired, err := s.locks.Acquire(ctx, instruction.PairKey(), owner, s.config.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock for %v: %w", instruction.PairKey(), err)
	}
	if !acquired {
		return &Outcome{Status: StatusSkipped, Reason: ReasonDuplicateLock}, nil
	}
	defer func() {
		if releaseErr := s.locks.Release(ctx, instruction.PairKey(), owner); releaseErr != nil {
			s.logger.Warnw("failed to release lock", "key", instruction.PairKey(), "error", releaseErr)
		}
	}()

	user, err := s.directory.Lookup(ctx, instruction.UserID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return s.fail(ctx, instruction, ReasonNotFound, err)
		}
		return nil, fmt.Errorf("failed to load user %v: %w", instruction.UserID, err)
	}
	job, err := s.catalog.Lookup(ctx, instruction.JobID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return s.fail(ctx, instruction, ReasonNotFound, err)
		}
		return nil, fmt.Errorf("failed to load job %v: %w", instruction.JobID, err)
	}
	if _, addrErr := mail.ParseAddress(job.RecruiterEmail); addrErr != nil {
		return s.fail(ctx, instruction, ReasonNoRecruiterEmail, addrErr)
	}

	exists, err := s.ledger.Exists(ctx, instruction.UserID, instruction.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ledger for %v: %w", instruction.PairKey(), err)
	}
	if exists {
		return &Outcome{Status: StatusSkipped, Reason: ReasonAlreadyApplied}, nil
	}

	email, err := s.composer.Compose(ctx, user, job)
	if err != nil {
		return s.transient(ctx, instruction, fmt.Errorf("failed to compose email: %w", err))
	}

	password, err := s.vault.Reveal(ctx, user.Credential)
	if err != nil {
		return s.fail(ctx, instruction, ReasonCredentialsUnavailable, err)
	}

	result, err := s.transport.Send(ctx, &transport.Request{
		From:          user.Email,
		Password:      password,
		To:            job.RecruiterEmail,
		Subject:       email.Subject,
		Body:          email.Body,
		AttachmentURL: user.ResumeURL,
	})
	if err != nil {
		if errors.Is(err, transport.ErrAuthentication) {
			return s.authFailure(ctx, instruction, err)
		}
		return s.transient(ctx, instruction, err)
	}

	return s.commit(ctx, instruction, job, email, result)
}

// commit writes the success side effects: one ledger row, the job's
// application counters and the user's sent counters.
func (s *Service) commit(ctx context.Context, instruction *model.SendInstruction, job *model.Job, email *composer.Email, result *transport.Result) (*Outcome, error) {
	record := s.newRecord(instruction, model.StatusSent, "")
	record.SentTo = job.RecruiterEmail
	record.Subject = email.Subject
	record.Response = result.Response
	if err := s.ledger.Append(ctx, record); err != nil {
		if errors.Is(err, ledger.ErrDuplicate) {
			// lost a race across cycles; the send went out, keep one row
			return &Outcome{Status: StatusSkipped, Reason: ReasonAlreadyApplied}, nil
		}
		return nil, fmt.Errorf("failed to append ledger row for %v: %w", instruction.PairKey(), err)
	}
	if err := s.catalog.RecordApplication(ctx, instruction.JobID, instruction.UserID); err != nil {
		s.logger.Errorw("failed to record application on job", "job", instruction.JobID, "error", err)
	}
	if err := s.directory.RecordSent(ctx, instruction.UserID); err != nil {
		s.logger.Errorw("failed to record sent counters", "user", instruction.UserID, "error", err)
	}
	return &Outcome{Status: StatusSuccess}, nil
}

// transient re-publishes the instruction with exponential backoff or, once
// the retry budget is spent, converts it to a permanent max_retries failure.
func (s *Service) transient(ctx context.Context, instruction *model.SendInstruction, cause error) (*Outcome, error) {
	if instruction.Attempt >= s.config.MaxRetries {
		return s.fail(ctx, instruction, ReasonMaxRetries, cause)
	}
	delay := s.config.RetryBase << uint(instruction.Attempt)
	retry := &model.SendInstruction{
		UserID:    instruction.UserID,
		JobID:     instruction.JobID,
		NotBefore: clock.Now().Add(delay),
		Attempt:   instruction.Attempt + 1,
	}
	if err := s.queue.Publish(ctx, retry, messaging.WithDelay(delay)); err != nil {
		return nil, fmt.Errorf("failed to requeue %v: %w", instruction.PairKey(), err)
	}
	s.logger.Warnw("transient failure, retrying",
		"user", instruction.UserID,
		"job", instruction.JobID,
		"attempt", instruction.Attempt,
		"retryIn", delay,
		"error", cause,
	)
	return &Outcome{Status: StatusRetrying, RetryIn: delay}, nil
}

// authFailure handles a credential rejection: permanent failure plus pausing
// the user's automation.
func (s *Service) authFailure(ctx context.Context, instruction *model.SendInstruction, cause error) (*Outcome, error) {
	if err := s.directory.PauseAutomation(ctx, instruction.UserID, string(ReasonAuth)); err != nil {
		s.logger.Errorw("failed to pause automation", "user", instruction.UserID, "error", err)
	}
	s.notifier.AuthFailure(ctx, instruction.UserID, cause)
	return s.fail(ctx, instruction, ReasonAuth, cause)
}

// fail records a permanent failure: exactly one ledger row plus a notifier
// event.
func (s *Service) fail(ctx context.Context, instruction *model.SendInstruction, reason Reason, cause error) (*Outcome, error) {
	record := s.newRecord(instruction, model.StatusFailed, reason)
	if err := s.ledger.Append(ctx, record); err != nil && !errors.Is(err, ledger.ErrDuplicate) {
		return nil, fmt.Errorf("failed to append failure row for %v: %w", instruction.PairKey(), err)
	}
	s.notifier.JobFailed(ctx, instruction.UserID, instruction.JobID, string(reason), cause)
	return &Outcome{Status: StatusFailed, Reason: reason}, nil
}

func (s *Service) newRecord(instruction *model.SendInstruction, status model.ApplicationStatus, reason Reason) *model.ApplicationRecord {
	return &model.ApplicationRecord{
		ID:         idgen.New(),
		UserID:     instruction.UserID,
		JobID:      instruction.JobID,
		Status:     status,
		Reason:     string(reason),
		RetryCount: instruction.Attempt,
		SentAt:     clock.Now(),
	}
}
