// File: internal/jobs/placement_expiry.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"kuwait_portal_backend/internal/config"
	"kuwait_portal_backend/internal/listing"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PlacementExpiryJob downgrades paid placements whose window has ended.
type PlacementExpiryJob struct {
	listingService listing.Service
	logger         *zap.Logger
	cfg            *config.Config
	cronScheduler  *cron.Cron
}

// NewPlacementExpiryJob creates a new PlacementExpiryJob.
func NewPlacementExpiryJob(
	listingService listing.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *PlacementExpiryJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &PlacementExpiryJob{
		listingService: listingService,
		logger:         logger.Named("PlacementExpiryJob"),
		cfg:            cfg,
		cronScheduler:  scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *PlacementExpiryJob) SetupAndStart() error {
	jobSpec := j.cfg.PlacementExpirySchedule
	if jobSpec == "" {
		j.logger.Warn("Placement expiry schedule not defined (PLACEMENT_EXPIRY_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule placement expiry job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Placement expiry job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *PlacementExpiryJob) runJob() {
	j.logger.Info("Starting placement expiry run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	count, err := j.listingService.ExpirePaidPlacements(ctx)
	if err != nil {
		j.logger.Error("Placement expiry run failed", zap.Error(err))
		return
	}
	j.logger.Info("Placement expiry run completed", zap.Int64("placements_expired", count))
}

// Stop gracefully stops the cron scheduler.
func (j *PlacementExpiryJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping placement expiry scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Placement expiry scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Placement expiry scheduler stop timed out.")
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
