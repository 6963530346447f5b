// Package scheduler provides recurring ingestion runs on a fixed interval.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler wraps a cron runner for periodic ingestion.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New creates a stopped Scheduler.
func New(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  logger,
	}
}

// Start schedules fn to run every interval and starts the cron loop.
func (s *Scheduler) Start(interval time.Duration, fn func()) error {
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("scheduling ingestion: %w", err)
	}

	s.cron.Start()
	s.log.Info().Str("interval", interval.String()).Msg("Scheduler started")
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}
