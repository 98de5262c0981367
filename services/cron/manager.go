package cron

import (
	"log"
	"time"

	"github.com/reviseo/reviseo-api/model"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron: c,
		db:   db,
	}
}

// Start registers and starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Hourly: reap premium grants past their end date. The read paths only
	// clean up grants they happen to touch; this sweeps the rest.
	_, err := m.cron.AddFunc("0 0 * * * *", func() {
		m.logJobStart("reap_expired_grants")
		m.ReapExpiredGrants()
	})
	if err != nil {
		return err
	}

	// Daily at 3 AM: trim old cron job logs
	_, err = m.cron.AddFunc("0 0 3 * * *", func() {
		m.logJobStart("cleanup_cron_logs")
		m.CleanupCronLogs()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// logJobStart records that a job began
func (m *CronManager) logJobStart(jobName string) {
	entry := model.CronJobLog{
		JobName:   jobName,
		Status:    "started",
		StartedAt: time.Now(),
	}
	if err := m.db.Create(&entry).Error; err != nil {
		log.Printf("[CRON] Failed to log start of %s: %v", jobName, err)
	}
}

// logJobComplete records that the most recent run of a job finished
func (m *CronManager) logJobComplete(jobName, message string) {
	m.finishJob(jobName, "completed", message, "")
}

// logJobError records that the most recent run of a job failed
func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] %s failed: %v", jobName, err)
	m.finishJob(jobName, "failed", "", err.Error())
}

func (m *CronManager) finishJob(jobName, status, message, errMsg string) {
	var entry model.CronJobLog
	err := m.db.Where("job_name = ? AND status = ?", jobName, "started").
		Order("started_at DESC").
		First(&entry).Error
	if err != nil {
		return
	}

	now := time.Now()
	entry.Status = status
	entry.CompletedAt = &now
	entry.Duration = int(now.Sub(entry.StartedAt).Milliseconds())
	entry.Message = message
	entry.ErrorMsg = errMsg
	if err := m.db.Save(&entry).Error; err != nil {
		log.Printf("[CRON] Failed to log completion of %s: %v", jobName, err)
	}
}
