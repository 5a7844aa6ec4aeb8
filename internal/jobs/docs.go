// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// CapacityAuditJob recounts the active groups of every agent and publishes the
// dispatch_active_groups, dispatch_agents_at_capacity and dispatch_agents_over_capacity
// gauges. A non-zero over-capacity gauge means two group creations raced past the lock,
// which the locking scheme is meant to make impossible.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(listAgentsHandler, policy, cfg.CapacityAuditSchedule, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron format with a leading seconds field. The default,
// "0 */5 * * * *", audits every five minutes.
package jobs
