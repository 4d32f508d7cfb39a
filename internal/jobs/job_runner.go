package jobs

import (
	"context"
	"fmt"
	"time"

	"clubsphere-backend/internal/config"
	"clubsphere-backend/internal/logger"
	"clubsphere-backend/internal/metrics"
	"clubsphere-backend/internal/repository"
	"clubsphere-backend/internal/service"
)

// Job names, as accepted by cronjob -run-once.
const (
	JobPendingRequestDigest = "digest"
)

const defaultJobTimeout = 5 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	requests repository.MembershipRequestRepository
	notifier service.NotificationService
	metrics  *metrics.Metrics
	config   *config.Config
	timeout  time.Duration
}

// NewJobRunner creates a new job runner with all dependencies. m may be nil.
func NewJobRunner(
	requests repository.MembershipRequestRepository,
	notifier service.NotificationService,
	m *metrics.Metrics,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		requests: requests,
		notifier: notifier,
		metrics:  m,
		config:   cfg,
		timeout:  defaultJobTimeout,
	}
}

// Config returns the configuration the runner was built with.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// Run runs the named job once.
func (jr *JobRunner) Run(name string) error {
	switch name {
	case JobPendingRequestDigest:
		return jr.sendPendingRequestDigest()
	default:
		return fmt.Errorf("unknown job %q", name)
	}
}

// runWithRecovery wraps job execution with panic recovery and a deadline.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()
	ctx = logger.NewContext(ctx, "job", jobName)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
		jr.metrics.AddJobRun(jobName, err)
	}()

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	if err = jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err)
		return err
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
	return nil
}
