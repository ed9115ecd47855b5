package reaper

import (
	"context"
	"time"

	"go.uber.org/zap"

	ucAppointment "github.com/NovaClinicas/clinic-scheduler/internal/usecase/appointment"
)

// Reaper periodically expires pending appointments whose hold lapsed.
// Conflict checks already treat lapsed holds as non-blocking, so the
// sweep is cleanup, not a correctness dependency.
type Reaper struct {
	expire   *ucAppointment.ExpireHolds
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

func New(
	expire *ucAppointment.ExpireHolds,
	interval time.Duration,
	logger *zap.Logger,
) *Reaper {
	return &Reaper{
		expire:   expire,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

func (r *Reaper) Start(ctx context.Context) {
	r.logger.Info("starting hold reaper", zap.Duration("interval", r.interval))
	go r.run(ctx)
}

func (r *Reaper) Stop() {
	r.logger.Info("stopping hold reaper")
	close(r.stopChan)
}

func (r *Reaper) run(ctx context.Context) {
	// first sweep right away, then on the ticker
	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep(ctx)
		case <-r.stopChan:
			r.logger.Info("hold reaper stopped")
			return
		case <-ctx.Done():
			r.logger.Info("hold reaper cancelled")
			return
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	n, err := r.expire.Execute(ctx)
	if err != nil {
		r.logger.Error("hold sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		r.logger.Info("expired stale holds", zap.Int64("count", n))
	}
}
