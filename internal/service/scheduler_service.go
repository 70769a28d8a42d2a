package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/nurlyy/customer_data/pkg/logger"
)

// ExpiredSweeper removes state whose time window has passed
type ExpiredSweeper interface {
	CleanupExpired() int
}

// MaintenanceScheduler runs periodic housekeeping jobs
type MaintenanceScheduler struct {
	cron     *cron.Cron
	schedule string
	sweeper  ExpiredSweeper
	logger   logger.Logger
}

// NewMaintenanceScheduler creates a scheduler that sweeps on the given cron schedule
func NewMaintenanceScheduler(schedule string, sweeper ExpiredSweeper, logger logger.Logger) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cron:     cron.New(),
		schedule: schedule,
		sweeper:  sweeper,
		logger:   logger,
	}
}

// Start registers the jobs and starts the scheduler.
// The scheduler stops when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweepExpired); err != nil {
		return fmt.Errorf("failed to schedule rate limit cleanup %q: %w", s.schedule, err)
	}

	s.logger.Info("Starting maintenance scheduler", map[string]interface{}{
		"schedule": s.schedule,
	})
	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *MaintenanceScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Maintenance scheduler stopped")
}

func (s *MaintenanceScheduler) sweepExpired() {
	removed := s.sweeper.CleanupExpired()
	if removed > 0 {
		s.logger.Debug("Evicted expired rate limit windows", map[string]interface{}{
			"removed": removed,
		})
	}
}
