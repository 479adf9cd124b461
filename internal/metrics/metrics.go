package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HttpRequestsTotal counts HTTP requests handled by the coordinator API.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of http requests handled by the service.",
		},
		[]string{"path", "method", "code"},
	)

	// JobsSubmittedTotal counts accepted job submissions by kind
	// (single/batch).
	JobsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_submitted_total",
			Help: "Total number of jobs accepted for processing.",
		},
		[]string{"kind"},
	)

	// DispatchTotal counts remote dispatch calls by node and outcome
	// (ok/error).
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_total",
			Help: "Total number of dispatch calls to worker nodes.",
		},
		[]string{"node", "status"},
	)

	// NodesDeactivatedTotal counts nodes marked inactive by the liveness
	// sweeper.
	NodesDeactivatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nodes_deactivated_total",
			Help: "Total number of nodes marked inactive by the liveness sweeper.",
		},
	)

	// IsSweepLeader marks whether this replica currently owns the sweep loop.
	IsSweepLeader = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "is_sweep_leader",
			Help: "Is this replica currently the sweep leader. 1 if leader, 0 otherwise.",
		},
		[]string{"instance_id"},
	)
)
