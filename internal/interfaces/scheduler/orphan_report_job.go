package scheduler

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/metric"

	"horizon/internal/infrastructure/postgres"
)

var orphanBacklog, _ = jobMeter.Int64Gauge("linking.orphan.backlog",
	metric.WithDescription("Unresolved orphaned funding sources awaiting reconciliation"))

// OrphanLister lists orphaned funding sources awaiting reconciliation.
// Implemented by the postgres orphan repository.
type OrphanLister interface {
	ListUnresolved(ctx context.Context) ([]*postgres.OrphanRecord, error)
}

// OrphanReportJob implements the Job interface. It periodically surfaces the
// orphaned funding source backlog in logs and metrics. It never touches the
// remote funding sources; cleanup stays a manual operation.
type OrphanReportJob struct {
	orphans OrphanLister
}

// NewOrphanReportJob creates a new orphan report job
func NewOrphanReportJob(orphans OrphanLister) *OrphanReportJob {
	return &OrphanReportJob{orphans: orphans}
}

// Execute runs the orphan report
func (j *OrphanReportJob) Execute(ctx context.Context) error {
	records, err := j.orphans.ListUnresolved(ctx)
	if err != nil {
		return fmt.Errorf("failed to list orphaned funding sources: %w", err)
	}

	orphanBacklog.Record(ctx, int64(len(records)))

	if len(records) == 0 {
		log.Println("Orphan report: no unresolved orphaned funding sources")
		return nil
	}

	log.Printf("WARNING orphan report: %d unresolved orphaned funding sources", len(records))
	for _, rec := range records {
		log.Printf("Orphan %s: user=%s funding_source=%s recorded=%s reason=%q",
			rec.ID, rec.UserID, rec.FundingSourceURL, rec.CreatedAt.Format("2006-01-02 15:04"), rec.Reason)
	}

	return nil
}

// Description returns a human-readable description of the job
func (j *OrphanReportJob) Description() string {
	return "Orphaned funding source report"
}
