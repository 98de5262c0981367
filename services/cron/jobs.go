package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/reviseo/reviseo-api/model"
	"github.com/reviseo/reviseo-api/services"
)

// ReapExpiredGrants removes every premium grant past its end date.
func (m *CronManager) ReapExpiredGrants() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	jobName := "reap_expired_grants"

	premiumService := services.NewPremiumService(m.db)
	reaped, err := premiumService.ReapExpired(ctx)
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Reaped %d expired grants", reaped))
}

// CleanupCronLogs trims job log rows older than 30 days.
func (m *CronManager) CleanupCronLogs() {
	jobName := "cleanup_cron_logs"

	cutoff := time.Now().AddDate(0, 0, -30)
	result := m.db.Unscoped().
		Where("created_at < ? AND status != ?", cutoff, "started").
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d old log rows", result.RowsAffected))
}
