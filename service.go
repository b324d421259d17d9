package outreach

import (
	"math/rand"

	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/allocator"
	"github.com/viant/outreach/service/catalog"
	catalogmem "github.com/viant/outreach/service/catalog/mem"
	"github.com/viant/outreach/service/composer"
	"github.com/viant/outreach/service/composer/template"
	"github.com/viant/outreach/service/directory"
	directorymem "github.com/viant/outreach/service/directory/mem"
	"github.com/viant/outreach/service/distribution"
	"github.com/viant/outreach/service/ledger"
	ledgermem "github.com/viant/outreach/service/ledger/mem"
	"github.com/viant/outreach/service/messaging"
	mmemory "github.com/viant/outreach/service/messaging/memory"
	"github.com/viant/outreach/service/mutex"
	mutexmem "github.com/viant/outreach/service/mutex/mem"
	"github.com/viant/outreach/service/notifier"
	"github.com/viant/outreach/service/scheduler"
	"github.com/viant/outreach/service/sender"
	"github.com/viant/outreach/service/transport"
	"github.com/viant/outreach/service/transport/smtp"
	"github.com/viant/outreach/service/vault"
	scyvault "github.com/viant/outreach/service/vault/scy"
	"go.uber.org/zap"
)

// Service wires the outreach engine: allocator, scheduler and send worker
// pool plus their collaborators. Collaborators default to in-memory
// implementations so the engine runs out of the box; production deployments
// swap them via options.
type Service struct {
	config    *Config
	runtime   *Runtime
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
	random    *rand.Rand
}

// New creates the engine service.
func New(options ...Option) (*Service, error) {
	s := &Service{runtime: &Runtime{}}
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	var allocatorOptions []allocator.Option
	allocatorOptions = append(allocatorOptions, allocator.WithTargets(s.config.Allocator))
	var schedulerOptions []scheduler.Option
	schedulerOptions = append(schedulerOptions, scheduler.WithLogger(s.logger))
	if s.random != nil {
		allocatorOptions = append(allocatorOptions, allocator.WithRand(s.random))
		schedulerOptions = append(schedulerOptions, scheduler.WithRand(s.random))
	}

	schedulerService := scheduler.New(s.queue, schedulerOptions...)
	s.runtime.distribution = distribution.New(
		s.directory,
		s.catalog,
		allocator.New(allocatorOptions...),
		schedulerService,
		s.logger,
	)

	senderService, err := sender.New(
		sender.WithConfig(s.config.Sender),
		sender.WithQueue(s.queue),
		sender.WithMutex(s.locks),
		sender.WithDirectory(s.directory),
		sender.WithCatalog(s.catalog),
		sender.WithLedger(s.ledger),
		sender.WithComposer(s.composer),
		sender.WithVault(s.vault),
		sender.WithTransport(s.transport),
		sender.WithNotifier(s.notifier),
		sender.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	s.runtime.sender = senderService
	s.runtime.queue = s.queue
	s.runtime.schedule = s.config.Schedule
	s.runtime.logger = s.logger
	return s, nil
}

// Runtime returns the engine runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.logger == nil {
		logger, err := zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
		s.logger = logger.Sugar()
	}
	if s.queue == nil {
		s.queue = mmemory.NewQueue[model.SendInstruction](mmemory.DefaultConfig())
	}
	if s.locks == nil {
		s.locks = mutexmem.New()
	}
	if s.directory == nil {
		s.directory = directorymem.New()
	}
	if s.catalog == nil {
		s.catalog = catalogmem.New()
	}
	if s.ledger == nil {
		s.ledger = ledgermem.New()
	}
	if s.composer == nil {
		s.composer, _ = template.New("", "")
	}
	if s.vault == nil {
		s.vault = scyvault.New()
	}
	if s.transport == nil {
		s.transport = smtp.New(
			smtp.WithServer(s.config.SMTP.Host, s.config.SMTP.Port),
			smtp.WithDialTimeout(s.config.SMTP.DialTimeout),
		)
	}
	if s.notifier == nil {
		s.notifier = notifier.NewLogger(s.logger)
	}
}
