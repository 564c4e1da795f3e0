package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub/internal/service"
)

// Scheduler runs the background jobs.
type Scheduler struct {
	notificationService *service.NotificationService
	interval            time.Duration
	logger              *zap.Logger
	stopChan            chan struct{}
}

func NewScheduler(notificationService *service.NotificationService, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		notificationService: notificationService,
		interval:            interval,
		logger:              logger,
		stopChan:            make(chan struct{}),
	}
}

// Start launches the background jobs.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	go s.runNeedsActionSweep(ctx)
}

// Stop stops the background jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runNeedsActionSweep periodically flags past sessions that were never
// actioned and materializes a notification per tutor. Clients poll the
// notifications endpoint, so the sweep interval is the staleness window.
func (s *Scheduler) runNeedsActionSweep(ctx context.Context) {
	// first run right at startup
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Needs-action sweep stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Needs-action sweep cancelled")
			return
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	created, err := s.notificationService.SweepSessionsNeedingAction(ctx)
	if err != nil {
		s.logger.Error("Needs-action sweep failed", zap.Error(err))
		return
	}

	if created > 0 {
		s.logger.Info("Needs-action sweep completed", zap.Int("notifications_created", created))
	}
}
