package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stafflane_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// ProjectPermissionChecks counts project permission resolutions by outcome
	// (none|view|edit|manage|error).
	ProjectPermissionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stafflane_project_permission_checks_total",
			Help: "Total number of project permission resolutions",
		},
		[]string{"result"},
	)

	// ModuleGateDecisions counts module gate evaluations and their outcome (allow|deny|error).
	ModuleGateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stafflane_module_gate_decisions_total",
			Help: "Total number of module gate decisions",
		},
		[]string{"module", "result"},
	)

	// FinanceGateDecisions counts finance gate evaluations by mode (view|write) and outcome.
	FinanceGateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stafflane_finance_gate_decisions_total",
			Help: "Total number of finance gate decisions",
		},
		[]string{"mode", "result"},
	)

	// ActiveSessions tracks active sessions (not expired/revoked).
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stafflane_active_sessions",
			Help: "Number of active sessions",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stafflane_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
