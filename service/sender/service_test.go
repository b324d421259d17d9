package sender

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/outreach/model"
	catalogmem "github.com/viant/outreach/service/catalog/mem"
	"github.com/viant/outreach/service/composer/template"
	directorymem "github.com/viant/outreach/service/directory/mem"
	ledgermem "github.com/viant/outreach/service/ledger/mem"
	"github.com/viant/outreach/service/messaging/memory"
	mutexmem "github.com/viant/outreach/service/mutex/mem"
	"github.com/viant/outreach/service/transport"
	"github.com/viant/outreach/service/vault/static"
)

// fakeTransport returns scripted results per call.
type fakeTransport struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (t *fakeTransport) Send(ctx context.Context, request *transport.Request) (*transport.Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var err error
	if t.calls < len(t.errs) {
		err = t.errs[t.calls]
	}
	t.calls++
	if err != nil {
		return nil, err
	}
	return &transport.Result{Response: "250 OK"}, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	failures []string
	auth     []model.UserID
}

func (n *recordingNotifier) JobFailed(ctx context.Context, userID model.UserID, jobID model.JobID, reason string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, fmt.Sprintf("%v/%v:%v", userID, jobID, reason))
}

func (n *recordingNotifier) AuthFailure(ctx context.Context, userID model.UserID, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.auth = append(n.auth, userID)
}

type fixture struct {
	service   *Service
	queue     *memory.Queue[model.SendInstruction]
	directory *directorymem.Service
	catalog   *catalogmem.Service
	ledger    *ledgermem.Service
	transport *fakeTransport
	notifier  *recordingNotifier
}

func newFixture(t *testing.T, transportErrs ...error) *fixture {
	t.Helper()
	user := &model.User{
		ID:                 "u1",
		Name:               "Ada Lovelace",
		Category:           "backend",
		Email:              "ada@example.com",
		Credential:         &model.CredentialRef{URL: "mem://secrets/u1.json"},
		Active:             true,
		SubscriptionActive: true,
	}
	job := &model.Job{
		ID:             "j1",
		Title:          "Go Engineer",
		Company:        "Acme",
		Category:       "backend",
		RecruiterEmail: "hr@acme.io",
	}
	ret := &fixture{
		queue:     memory.NewQueue[model.SendInstruction](memory.DefaultConfig()),
		directory: directorymem.New(user),
		catalog:   catalogmem.New(job),
		ledger:    ledgermem.New(),
		transport: &fakeTransport{errs: transportErrs},
		notifier:  &recordingNotifier{},
	}
	compose, err := template.New("", "")
	assert.Nil(t, err)
	ret.service, err = New(
		WithQueue(ret.queue),
		WithMutex(mutexmem.New()),
		WithDirectory(ret.directory),
		WithCatalog(ret.catalog),
		WithLedger(ret.ledger),
		WithComposer(compose),
		WithVault(static.New(map[string]string{"mem://secrets/u1.json": "s3cret"})),
		WithTransport(ret.transport),
		WithNotifier(ret.notifier),
	)
	assert.Nil(t, err)
	return ret
}

func (f *fixture) dispatch(t *testing.T, instruction *model.SendInstruction) *Outcome {
	t.Helper()
	err := f.queue.Publish(context.Background(), instruction)
	assert.Nil(t, err)
	msg, err := f.queue.Consume(context.Background())
	assert.Nil(t, err)
	outcome, err := f.service.Process(context.Background(), msg)
	assert.Nil(t, err)
	return outcome
}

func TestService_Process_success(t *testing.T) {
	f := newFixture(t)
	outcome := f.dispatch(t, &model.SendInstruction{UserID: "u1", JobID: "j1"})
	assert.Equal(t, StatusSuccess, outcome.Status)

	records, err := f.ledger.List(context.Background(), "u1")
	assert.Nil(t, err)
	if assert.Equal(t, 1, len(records)) {
		assert.Equal(t, model.StatusSent, records[0].Status)
		assert.Equal(t, "hr@acme.io", records[0].SentTo)
		assert.Equal(t, "250 OK", records[0].Response)
	}
	job, err := f.catalog.Lookup(context.Background(), "j1")
	assert.Nil(t, err)
	assert.Equal(t, 1, job.ApplicationCount)
	assert.True(t, job.WasAppliedBy("u1"))

	user, err := f.directory.Lookup(context.Background(), "u1")
	assert.Nil(t, err)
	assert.Equal(t, 1, user.SentToday)
	assert.Equal(t, 1, user.SentTotal)
}

func TestService_Process_alreadyApplied(t *testing.T) {
	f := newFixture(t)
	first := f.dispatch(t, &model.SendInstruction{UserID: "u1", JobID: "j1"})
	assert.Equal(t, StatusSuccess, first.Status)

	second := f.dispatch(t, &model.SendInstruction{UserID: "u1", JobID: "j1"})
	assert.Equal(t, StatusSkipped, second.Status)
	assert.Equal(t, ReasonAlreadyApplied, second.Reason)

	records, err := f.ledger.List(context.Background(), "u1")
	assert.Nil(t, err)
	assert.Equal(t, 1, len(records))
	assert.Equal(t, 1, f.transport.calls)
}

func TestService_Process_duplicateLock(t *testing.T) {
	f := newFixture(t)
	// another worker already holds the pair lock
	instruction := &model.SendInstruction{UserID: "u1", JobID: "j1"}
	locks := mutexmem.New()
	acquired, err := locks.Acquire(context.Background(), instruction.PairKey(), "other-task", 600*time.Second)
	assert.Nil(t, err)
	assert.True(t, acquired)
	f.service.locks = locks

	outcome := f.dispatch(t, instruction)
	assert.Equal(t, StatusSkipped, outcome.Status)
	assert.Equal(t, ReasonDuplicateLock, outcome.Reason)
	assert.Equal(t, 0, f.transport.calls)
	records, err := f.ledger.List(context.Background(), "u1")
	assert.Nil(t, err)
	assert.Equal(t, 0, len(records))
}

func TestService_Process_notFound(t *testing.T) {
	f := newFixture(t)
	outcome := f.dispatch(t, &model.SendInstruction{UserID: "ghost", JobID: "j1"})
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, ReasonNotFound, outcome.Reason)

	outcome = f.dispatch(t, &model.SendInstruction{UserID: "u1", JobID: "ghost"})
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, ReasonNotFound, outcome.Reason)
	assert.Equal(t, 2, len(f.notifier.failures))
}

func TestService_Process_noRecruiterEmail(t *testing.T) {
	f := newFixture(t)
	f.catalog.Upsert(&model.Job{ID: "j2", Category: "backend", RecruiterEmail: "not-an-address"})

	outcome := f.dispatch(t, &model.SendInstruction{UserID: "u1", JobID: "j2"})
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, ReasonNoRecruiterEmail, outcome.Reason)
	assert.Equal(t, 0, f.transport.calls)
}

func TestService_Process_credentialsUnavailable(t *testing.T) {
	f := newFixture(t)
	f.directory.Upsert(&model.User{
		ID:                 "u2",
		Category:           "backend",
		Email:              "no-cred@example.com",
		Active:             true,
		SubscriptionActive: true,
	})
	outcome := f.dispatch(t, &model.SendInstruction{UserID: "u2", JobID: "j1"})
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, ReasonCredentialsUnavailable, outcome.Reason)
	assert.Equal(t, 0, f.transport.calls)

	records, err := f.ledger.List(context.Background(), "u2")
	assert.Nil(t, err)
	if assert.Equal(t, 1, len(records)) {
		assert.Equal(t, model.StatusFailed, records[0].Status)
		assert.Equal(t, string(ReasonCredentialsUnavailable), records[0].Reason)
	}
}

func TestService_Process_authFailure(t *testing.T) {
	authErr := fmt.Errorf("%w: 535 bad credentials", transport.ErrAuthentication)
	f := newFixture(t, authErr)

	outcome := f.dispatch(t, &model.SendInstruction{UserID: "u1", JobID: "j1"})
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, ReasonAuth, outcome.Reason)
	assert.Equal(t, []model.UserID{"u1"}, f.notifier.auth)

	// automation paused: the user is no longer eligible
	user, err := f.directory.Lookup(context.Background(), "u1")
	assert.Nil(t, err)
	assert.False(t, user.Active)
}

func TestService_Process_transientRetry(t *testing.T) {
	f := newFixture(t, errors.New("451 try again later"))

	outcome := f.dispatch(t, &model.SendInstruction{UserID: "u1", JobID: "j1"})
	assert.Equal(t, StatusRetrying, outcome.Status)
	assert.Equal(t, 60*time.Second, outcome.RetryIn)
	// a follow-up instruction with attempt+1 is queued but not yet visible
	assert.Equal(t, 1, f.queue.Pending())

	// retry budget grows exponentially with the attempt
	f2 := newFixture(t, errors.New("451"), errors.New("451"))
	outcome = f2.dispatch(t, &model.SendInstruction{UserID: "u1", JobID: "j1", Attempt: 2})
	assert.Equal(t, StatusRetrying, outcome.Status)
	assert.Equal(t, 240*time.Second, outcome.RetryIn)
}

func TestService_Process_maxRetries(t *testing.T) {
	f := newFixture(t, errors.New("451 try again later"))

	outcome := f.dispatch(t, &model.SendInstruction{UserID: "u1", JobID: "j1", Attempt: 3})
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, ReasonMaxRetries, outcome.Reason)

	records, err := f.ledger.List(context.Background(), "u1")
	assert.Nil(t, err)
	if assert.Equal(t, 1, len(records)) {
		assert.Equal(t, model.StatusFailed, records[0].Status)
		assert.Equal(t, string(ReasonMaxRetries), records[0].Reason)
		assert.Equal(t, 3, records[0].RetryCount)
	}
	assert.Equal(t, []string{"u1/j1:max_retries"}, f.notifier.failures)
}

// brokenLedger simulates a ledger backend outage.
type brokenLedger struct{}

func (l *brokenLedger) Append(ctx context.Context, record *model.ApplicationRecord) error {
	return errors.New("ledger unavailable")
}

func (l *brokenLedger) Exists(ctx context.Context, userID model.UserID, jobID model.JobID) (bool, error) {
	return false, errors.New("ledger unavailable")
}

func (l *brokenLedger) List(ctx context.Context, userID model.UserID) ([]*model.ApplicationRecord, error) {
	return nil, errors.New("ledger unavailable")
}

func TestService_Process_infrastructureFailure(t *testing.T) {
	f := newFixture(t)
	f.service.ledger = &brokenLedger{}

	instruction := &model.SendInstruction{UserID: "u1", JobID: "j1"}
	assert.Nil(t, f.queue.Publish(context.Background(), instruction))
	msg, err := f.queue.Consume(context.Background())
	assert.Nil(t, err)

	// the cause must surface to the caller, not vanish into the nack
	outcome, err := f.service.Process(context.Background(), msg)
	assert.Nil(t, outcome)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "ledger unavailable")

	// and the parked message carries it too
	dlq := f.queue.DLQ()
	if assert.Equal(t, 1, len(dlq)) {
		assert.NotNil(t, dlq[0].Failure())
		assert.Contains(t, dlq[0].Failure().Error(), "ledger unavailable")
	}
}

func TestService_workerPool(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.Nil(t, f.service.Start(ctx))

	assert.Nil(t, f.queue.Publish(ctx, &model.SendInstruction{UserID: "u1", JobID: "j1"}))
	assert.Eventually(t, func() bool {
		user, err := f.directory.Lookup(context.Background(), "u1")
		return err == nil && user.SentToday == 1
	}, time.Second, 10*time.Millisecond)

	f.service.Shutdown()
}
