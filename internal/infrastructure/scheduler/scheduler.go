// Package scheduler runs periodic document refreshes on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/0xcro3dile/docchat-go/internal/domain/usecases"
)

const refreshTimeout = 10 * time.Minute

// RefreshScheduler calls Refresh on a standard five-field cron schedule or
// a descriptor such as "@hourly" or "@every 30m".
type RefreshScheduler struct {
	refresher usecases.Refresher
	cron      *cron.Cron
	logger    arbor.ILogger
}

// NewRefreshScheduler creates a stopped scheduler.
func NewRefreshScheduler(refresher usecases.Refresher, logger arbor.ILogger) *RefreshScheduler {
	return &RefreshScheduler{
		refresher: refresher,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger,
	}
}

// Validate reports whether schedule parses.
func Validate(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return nil
}

// Start registers the schedule and starts the cron runner.
func (s *RefreshScheduler) Start(schedule string) error {
	if err := Validate(schedule); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(schedule, s.runRefresh); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Str("schedule", schedule).Msg("Document refresh scheduler started")
	return nil
}

// Stop stops the runner and waits for a running refresh to finish.
func (s *RefreshScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Document refresh scheduler stopped")
}

func (s *RefreshScheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled refresh failed")
		return
	}
	s.logger.Info().Dur("duration", time.Since(start)).Msg("Scheduled refresh completed")
}
