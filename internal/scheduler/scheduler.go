package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"mlbschedule/ingestion/internal/config"
	"mlbschedule/ingestion/internal/metrics"
)

// ReconcileRunner is the set of background jobs the scheduler drives.
type ReconcileRunner interface {
	RunPass(ctx context.Context, remainingOnly bool) error
	UpdateTeamRecords(ctx context.Context) error
	RefreshPromotions(ctx context.Context) error
}

// Scheduler manages cron-driven background jobs:
// - nightly schedule reconciliation
// - weekly standings refresh
// - weekly promotions refresh
// All jobs share one mutex so overlapping triggers coalesce instead of
// running concurrent passes against the same stored schedule.
type Scheduler struct {
	cfg    *config.Config
	runner ReconcileRunner
	cron   *cron.Cron
	mu     sync.Mutex
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg *config.Config, runner ReconcileRunner) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		runner: runner,
		cron:   cron.New(),
	}
}

// Start registers the cron jobs and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.ScheduleRefreshCron, func() {
		s.runExclusive("schedule refresh", func() error {
			return s.runner.RunPass(ctx, true)
		})
	}); err != nil {
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.StandingsRefreshCron, func() {
		s.runExclusive("standings refresh", func() error {
			return s.runner.UpdateTeamRecords(ctx)
		})
	}); err != nil {
		return fmt.Errorf("failed to schedule standings job: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.PromotionsRefreshCron, func() {
		s.runExclusive("promotions refresh", func() error {
			return s.runner.RefreshPromotions(ctx)
		})
	}); err != nil {
		return fmt.Errorf("failed to schedule promotions job: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule_cron", s.cfg.ScheduleRefreshCron).
		Str("standings_cron", s.cfg.StandingsRefreshCron).
		Str("promotions_cron", s.cfg.PromotionsRefreshCron).
		Msg("Background jobs scheduled")

	return nil
}

// Stop stops the scheduler. A job already running is allowed to finish.
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Info().Msg("Scheduler stopped")
}

// runExclusive runs job under the shared mutex. If another job holds
// the lock the trigger is skipped, not queued.
func (s *Scheduler) runExclusive(name string, job func() error) {
	if !s.mu.TryLock() {
		metrics.SkippedTriggersTotal.Inc()
		log.Warn().Str("job", name).Msg("Previous job still running, skipping trigger")
		return
	}
	defer s.mu.Unlock()

	log.Info().Str("job", name).Msg("Running scheduled job")
	if err := job(); err != nil {
		log.Error().Err(err).Str("job", name).Msg("Scheduled job failed")
		return
	}
	log.Info().Str("job", name).Msg("Scheduled job completed")
}
