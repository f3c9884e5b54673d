// Package metrics defines and registers all custom Prometheus metrics for the
// skills matrix API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry via promauto at
// package load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skillsmatrix"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - tier: "admin" (email and password) or "employee" (bare clock ID)
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by tier and result.",
	},
	[]string{"tier", "result"},
)

// SessionsIssuedTotal counts issued sessions.
// Label:
//   - remember: "true" for 31-day sessions, "false" for browser-session logins
var SessionsIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of sessions issued, by remember mode.",
	},
	[]string{"remember"},
)

// AccessDeniedTotal counts rejected access checks.
// Label:
//   - reason: "no_session", "expired", or "forbidden"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of rejected access checks, by reason.",
	},
	[]string{"reason"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditWritesTotal counts audit entries persisted successfully.
// Label:
//   - action: the recorded action kind (e.g. "login", "delete")
var AuditWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_writes_total",
		Help:      "Total number of audit entries written, by action.",
	},
	[]string{"action"},
)

// AuditWriteFailuresTotal counts audit entries that could not be persisted.
// Recording never fails the triggering operation, so this counter is the
// primary signal that the trail is losing entries.
// Label:
//   - reason: "insert_failed" or "queue_full"
var AuditWriteFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_failures_total",
		Help:      "Total number of audit entries lost, by reason.",
	},
	[]string{"reason"},
)

// AuditQueueDepth tracks entries waiting in each audit writer channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each writer worker channel.",
	},
	[]string{"worker_id"},
)
