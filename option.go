package outreach

import (
	"math/rand"

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
	"go.uber.org/zap"
)

// Option configures the engine service.
type Option func(s *Service)

// WithConfig sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithQueue sets the send instruction queue.
func WithQueue(queue messaging.Queue[model.SendInstruction]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithMutex sets the pair lock service.
func WithMutex(locks mutex.Service) Option {
	return func(s *Service) { s.locks = locks }
}

// WithDirectory sets the user directory.
func WithDirectory(service directory.Service) Option {
	return func(s *Service) { s.directory = service }
}

// WithCatalog sets the job catalog.
func WithCatalog(service catalog.Service) Option {
	return func(s *Service) { s.catalog = service }
}

// WithLedger sets the application ledger.
func WithLedger(service ledger.Service) Option {
	return func(s *Service) { s.ledger = service }
}

// WithComposer sets the email composer.
func WithComposer(service composer.Service) Option {
	return func(s *Service) { s.composer = service }
}

// WithVault sets the credential vault.
func WithVault(service vault.Service) Option {
	return func(s *Service) { s.vault = service }
}

// WithTransport sets the mail transport.
func WithTransport(service transport.Service) Option {
	return func(s *Service) { s.transport = service }
}

// WithNotifier sets the failure notifier.
func WithNotifier(service notifier.Service) Option {
	return func(s *Service) { s.notifier = service }
}

// WithLogger sets the logger shared by all components.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithRand injects the randomness source used by the allocator and
// scheduler, making cycles deterministic under test.
func WithRand(random *rand.Rand) Option {
	return func(s *Service) { s.random = random }
}
