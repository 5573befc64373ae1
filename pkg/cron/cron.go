package cron

import (
	"context"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/campushq/analytics/internal/config"
	"github.com/campushq/analytics/internal/logging"
	"github.com/campushq/analytics/pkg/services"
)

type CronService struct {
	processor *services.ProcessorService
	cnf       *config.CronJobConfig
	logger    *zap.SugaredLogger
}

// StartCronJobs schedules the two sweeps: reprocessing of events whose
// asynchronous enrichment never completed, and retention cleanup.
func StartCronJobs(ctx context.Context, scheduler *gocron.Scheduler, processor *services.ProcessorService, cnf *config.CronJobConfig) {
	cron := CronService{
		processor: processor,
		cnf:       cnf,
		logger:    logging.DefaultLogger().Sugar(),
	}

	scheduler.Every(cnf.ProcessInterval).Do(cron.ProcessPending, ctx)

	scheduler.Every(cnf.CleanupInterval).Do(cron.CleanupOldEvents, ctx)

	scheduler.StartAsync()
}

func (c *CronService) ProcessPending(ctx context.Context) {
	if err := c.processor.ProcessPending(ctx); err != nil {
		c.logger.Errorw("failed to process pending events", "err", err)
	}
}

func (c *CronService) CleanupOldEvents(ctx context.Context) {
	if _, err := c.processor.CleanupOldEvents(ctx, c.cnf.RetentionDays); err != nil {
		c.logger.Errorw("failed to clean up old events", "err", err)
	}
}
