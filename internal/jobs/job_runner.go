package jobs

import (
	"time"

	"encore-rentals/internal/config"
	"encore-rentals/internal/logger"
	"encore-rentals/internal/notify"
	"encore-rentals/internal/repository"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentals  repository.RentalRepository
	notifier notify.Notifier
	config   *config.Config
	now      func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(rentals repository.RentalRepository, notifier notify.Notifier, cfg *config.Config) *JobRunner {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &JobRunner{
		rentals:  rentals,
		notifier: notifier,
		config:   cfg,
		now:      time.Now,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every reminder job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SendPendingRequestReminders()
	jr.SendUpcomingRentalReminders()
}
