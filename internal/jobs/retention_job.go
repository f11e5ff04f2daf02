package jobs

import (
	"context"
	"log"
	"time"

	"github.com/gonyrida/sitedaily/internal/db/repositories"
	"github.com/gonyrida/sitedaily/internal/metrics"
)

// RetentionJob permanently removes soft-deleted reports and unsubmitted
// drafts that have been abandoned longer than the retention window.
// Submitted reports are never purged.
type RetentionJob struct {
	reports *repositories.ReportRepositoryGORM
	metrics *metrics.MetricsRegistry
	keepFor time.Duration
}

// NewRetentionJob creates a retention job instance
func NewRetentionJob(reports *repositories.ReportRepositoryGORM, metricsReg *metrics.MetricsRegistry, keepFor time.Duration) *RetentionJob {
	return &RetentionJob{
		reports: reports,
		metrics: metricsReg,
		keepFor: keepFor,
	}
}

// Run executes one purge pass.
func (j *RetentionJob) Run(ctx context.Context) error {
	start := time.Now()
	log.Printf("[RetentionJob] Starting purge at %s", start.Format(time.RFC3339))

	purged, err := j.reports.PurgeStale(ctx, j.keepFor)
	if err != nil {
		log.Printf("[RetentionJob] Error purging stale reports: %v", err)
		return err
	}

	elapsed := time.Since(start)
	j.metrics.RetentionJobDuration.WithLabelValues("retention").Observe(elapsed.Seconds())
	log.Printf("[RetentionJob] Completed purge in %s. Reports removed: %d",
		elapsed.Truncate(time.Millisecond), purged)
	return nil
}

// RunScheduled runs the retention job on a schedule
func (j *RetentionJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := j.Run(ctx); err != nil {
		log.Printf("[RetentionJob] Error in initial run: %v", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				log.Printf("[RetentionJob] Error in scheduled run: %v", err)
			}
		case <-ctx.Done():
			log.Printf("[RetentionJob] Shutting down scheduled purge")
			return
		}
	}
}
