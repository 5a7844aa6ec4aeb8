// Package metrics provides Prometheus metrics for the allocation core.
// Every metric is registered on Registry, which the HTTP adapter exposes on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for the service.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

const namespace = "dispatch"

// =============================================================================
// ALLOCATION
// =============================================================================

// GroupsCreatedTotal counts delivery groups created.
var GroupsCreatedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "groups_created_total",
	Help:      "Total number of delivery groups created",
})

// CapacityRejectionsTotal counts group creations refused because the agent was full.
var CapacityRejectionsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "capacity_rejections_total",
	Help:      "Group creations rejected because the agent held the maximum number of active groups",
})

// StatusTransitionsTotal counts accepted status changes by target status.
var StatusTransitionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "status_transitions_total",
	Help:      "Accepted group status transitions by target status",
}, []string{"status"})

// OrderPlacementsTotal counts orders placed into groups by placement kind (ATTACH or MOVE).
var OrderPlacementsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "order_placements_total",
	Help:      "Orders placed into a delivery group by placement kind",
}, []string{"kind"})

// OrderSkipsTotal counts orders skipped by multi-order operations, by reason.
var OrderSkipsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "order_skips_total",
	Help:      "Orders skipped by bulk and create-and-assign operations by reason",
}, []string{"reason"})

// BulkDurationSeconds tracks how long a multi-order operation takes end to end.
var BulkDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "bulk_duration_seconds",
	Help:      "Time taken to process one bulk allocation request",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
})

// PlacementRetriesTotal counts placements re-read because the order moved before its locks were taken.
var PlacementRetriesTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "placement_retries_total",
	Help:      "Placements retried because the order changed group between read and lock",
})

// =============================================================================
// LOCKING
// =============================================================================

// LockWaitSeconds tracks time spent acquiring a lock set, by locker backend.
var LockWaitSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "lock_wait_seconds",
	Help:      "Time spent acquiring a set of entity locks",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
}, []string{"backend"})

// =============================================================================
// CAPACITY AUDIT
// =============================================================================

// ActiveGroups is the number of READY or IN_PROGRESS groups seen by the last audit.
var ActiveGroups = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "active_groups",
	Help:      "Active delivery groups across all shops at the last capacity audit",
})

// AgentsAtCapacity is the number of agents holding the maximum number of active groups.
var AgentsAtCapacity = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "agents_at_capacity",
	Help:      "Agents at or over the active group limit at the last capacity audit",
})

// AgentsOverCapacity is the number of agents holding more groups than allowed.
// A non-zero value means the capacity invariant was broken.
var AgentsOverCapacity = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "agents_over_capacity",
	Help:      "Agents holding more active groups than the limit at the last capacity audit",
})

// ResetAuditGauges clears the audit gauges before a new audit run.
func ResetAuditGauges() {
	ActiveGroups.Set(0)
	AgentsAtCapacity.Set(0)
	AgentsOverCapacity.Set(0)
}
