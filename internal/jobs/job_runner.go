package jobs

import (
	"database/sql"
	"time"

	"microfinance-backend/internal/config"
	"microfinance-backend/internal/logger"
	"microfinance-backend/internal/repository/postgres"
	"microfinance-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db       *sql.DB
	store    *postgres.Store
	services *Services
	config   *config.Config

	// now is swapped out in tests to pin the reference date
	now func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email service.EmailService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, store *postgres.Store, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:       db,
		store:    store,
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

// Config exposes the runner's configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// SetNow overrides the runner's clock. Test hook.
func (jr *JobRunner) SetNow(now func() time.Time) {
	jr.now = now
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

// RunAllDailyJobs runs every daily job in dependency order: installments must
// be OVERDUE before late interest can accrue on them, and loans are promoted
// after their installments.
func (jr *JobRunner) RunAllDailyJobs() {
	jr.PromoteOverdueInstallments()
	jr.RecalculateLateInterest()
	jr.PromoteOverdueLoans()
	jr.SendOverdueNotices()
}
