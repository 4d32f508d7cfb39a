package scheduler

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"clubsphere-backend/internal/jobs"
	"clubsphere-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron    *cron.Cron
	jobs    *jobs.JobRunner
	running atomic.Bool
}

// NewScheduler creates a new scheduler with the provided job runner. An
// invalid cron spec in the configuration is an error.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// UTC with seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	if _, err := s.cron.AddFunc(cfg.PendingRequestDigest, s.jobs.SendPendingRequestDigest); err != nil {
		logger.Error("Failed to register SendPendingRequestDigest job", "spec", cfg.PendingRequestDigest, "error", err)
		return fmt.Errorf("register pending request digest %q: %w", cfg.PendingRequestDigest, err)
	}

	logger.Info("All cron jobs registered successfully", "jobs", len(s.cron.Entries()))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	s.running.Store(true)
	logger.Info("Cron scheduler started successfully")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running.Store(false)
	logger.Info("Cron scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

// Next returns the next scheduled run of every job.
func (s *Scheduler) Next() []time.Time {
	entries := s.cron.Entries()
	next := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		next = append(next, e.Schedule.Next(time.Now().UTC()))
	}
	return next
}
