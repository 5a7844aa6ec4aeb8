package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// DefaultAuditSchedule runs the capacity audit every five minutes (seconds field first).
const DefaultAuditSchedule = "0 */5 * * * *"

const auditTimeout = 30 * time.Second

// AuditReport summarizes one capacity audit run.
type AuditReport struct {
	Agents       int
	ActiveGroups int
	AtCapacity   int
	OverCapacity int
}

// CapacityAuditJob recounts active groups per agent on a schedule and publishes the
// totals as gauges. Agents above the limit are logged as warnings.
type CapacityAuditJob struct {
	handler  queries.ListAgentsQueryHandler
	policy   services.CapacityPolicy
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewCapacityAuditJob creates the audit job. An empty schedule means DefaultAuditSchedule.
func NewCapacityAuditJob(
	handler queries.ListAgentsQueryHandler,
	policy services.CapacityPolicy,
	schedule string,
	logger *slog.Logger,
) *CapacityAuditJob {
	if schedule == "" {
		schedule = DefaultAuditSchedule
	}
	return &CapacityAuditJob{
		handler:  handler,
		policy:   policy,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "capacity_audit_job"),
	}
}

// Start schedules the audit. It fails when the schedule does not parse.
func (j *CapacityAuditJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()

		if _, err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Capacity audit failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Capacity audit job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running audit to finish.
func (j *CapacityAuditJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Capacity audit job stopped")
}

// Run performs one audit immediately.
func (j *CapacityAuditJob) Run(ctx context.Context) (AuditReport, error) {
	agents, err := j.handler.Handle(ctx, queries.NewListAllAgentsQuery())
	if err != nil {
		return AuditReport{}, err
	}

	limit := j.policy.MaxActiveGroups()
	report := AuditReport{Agents: len(agents)}
	for _, a := range agents {
		report.ActiveGroups += a.ActiveGroupCount
		if a.ActiveGroupCount >= limit {
			report.AtCapacity++
		}
		if a.ActiveGroupCount > limit {
			report.OverCapacity++
			j.logger.WarnContext(ctx, "Agent holds more active groups than allowed",
				"agentId", a.ID,
				"shopId", a.ShopID,
				"activeGroups", a.ActiveGroupCount,
				"maxActiveGroups", limit,
			)
		}
	}

	metrics.ResetAuditGauges()
	metrics.ActiveGroups.Set(float64(report.ActiveGroups))
	metrics.AgentsAtCapacity.Set(float64(report.AtCapacity))
	metrics.AgentsOverCapacity.Set(float64(report.OverCapacity))

	j.logger.DebugContext(ctx, "Capacity audit finished",
		"agents", report.Agents,
		"activeGroups", report.ActiveGroups,
		"atCapacity", report.AtCapacity,
	)
	return report, nil
}
