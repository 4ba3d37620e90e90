package jobs

import (
	"peerrent-backend/internal/config"
	"peerrent-backend/internal/logger"
	"peerrent-backend/internal/repository/postgres"
	"peerrent-backend/internal/service"
)

// JobRunner coordinates all scheduled maintenance jobs.
type JobRunner struct {
	store    *postgres.Store
	orderSvc service.OrderService
	emailSvc service.EmailService
	config   *config.Config
}

func NewJobRunner(store *postgres.Store, orderSvc service.OrderService, emailSvc service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:    store,
		orderSvc: orderSvc,
		emailSvc: emailSvc,
		config:   cfg,
	}
}

// Config exposes the loaded configuration to the scheduler.
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

// RunAll runs every job once, for manual execution via the cronjob binary.
func (jr *JobRunner) RunAll() {
	jr.ExpireStaleQuotes()
	jr.ActivateStartedOrders()
	jr.CompleteFinishedOrders()
	jr.SendReturnReminders()
}
