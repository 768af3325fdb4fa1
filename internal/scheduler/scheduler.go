package scheduler

import (
	"context"
	"log"
	"time"

	"dataplug/config"
	"dataplug/internal/service"
)

// Scheduler runs the periodic background jobs: the maturation sweep and the
// provider order-status sync. Both jobs are idempotent, so a missed or
// doubled firing is harmless.
type Scheduler struct {
	cfg           *config.SchedulerConfig
	maturationSvc *service.MaturationService
	orderSvc      *service.OrderService
}

func New(cfg *config.SchedulerConfig, maturationSvc *service.MaturationService, orderSvc *service.OrderService) *Scheduler {
	return &Scheduler{cfg: cfg, maturationSvc: maturationSvc, orderSvc: orderSvc}
}

// Start launches the job loops; they stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx, "maturation", s.cfg.MaturationInterval, func(context.Context) error {
		return s.maturationSvc.Sweep()
	})
	go s.loop(ctx, "order-sync", s.cfg.OrderSyncInterval, s.orderSvc.SyncStatuses)
}

func (s *Scheduler) loop(ctx context.Context, name string, interval time.Duration, job func(context.Context) error) {
	// First run at startup, then on every tick.
	if err := job(ctx); err != nil {
		log.Printf("[Scheduler] %s: %v", name, err)
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if err := job(ctx); err != nil {
				log.Printf("[Scheduler] %s: %v", name, err)
			}
		}
	}
}
