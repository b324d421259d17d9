package outreach

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/distribution"
	"github.com/viant/outreach/service/messaging"
	"github.com/viant/outreach/service/sender"
	"go.uber.org/zap"
)

// Runtime owns the engine lifecycle: the send worker pool and the optional
// cron trigger for daily distribution.
type Runtime struct {
	distribution *distribution.Service
	sender       *sender.Service
	queue        messaging.Queue[model.SendInstruction]
	schedule     string
	cron         *cron.Cron
	logger       *zap.SugaredLogger
}

// Start launches the send workers and, when a schedule is configured, the
// cron trigger for daily distribution.
func (r *Runtime) Start(ctx context.Context) error {
	if err := r.sender.Start(ctx); err != nil {
		return err
	}
	if r.schedule == "" {
		return nil
	}
	r.cron = cron.New()
	_, err := r.cron.AddFunc(r.schedule, func() {
		if _, cycleErr := r.RunCycle(context.Background()); cycleErr != nil {
			r.logger.Errorw("scheduled distribution cycle failed", "error", cycleErr)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", r.schedule, err)
	}
	r.cron.Start()
	return nil
}

// Shutdown stops the cron trigger and drains the worker pool.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r.cron != nil {
		cronCtx := r.cron.Stop()
		select {
		case <-cronCtx.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.sender.Shutdown()
	return nil
}

// RunCycle runs one distribution cycle immediately, the manual
// "run distribution now" entry point.
func (r *Runtime) RunCycle(ctx context.Context) (*distribution.CycleStats, error) {
	return r.distribution.RunCycle(ctx)
}

// EmergencyStop discards pending send instructions. The operation is
// best-effort: instructions already claimed by a worker finish normally, and
// the pair lock plus the ledger keep even those idempotent.
func (r *Runtime) EmergencyStop(ctx context.Context) (int, error) {
	purger, ok := r.queue.(messaging.Purger)
	if !ok {
		return 0, fmt.Errorf("queue %T does not support purge", r.queue)
	}
	purged, err := purger.Purge(ctx)
	if err != nil {
		return purged, fmt.Errorf("failed to purge queue: %w", err)
	}
	r.logger.Warnw("emergency stop: pending instructions purged", "count", purged)
	return purged, nil
}
