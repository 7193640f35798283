// Package metrics defines the custom Prometheus metrics for the auth
// service. It is the single source of truth for metric names, labels, and
// help strings; the vectors register themselves with the default registry at
// init time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "duplicate_email" or "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "inactive_account"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthzDecisionsTotal counts role-authorization decisions.
// Label:
//   - result: "allowed", "forbidden" or "unauthenticated"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization guard decisions, by result.",
	},
	[]string{"result"},
)

// TokenRevocationsTotal counts tokens revoked through logout.
var TokenRevocationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_revocations_total",
		Help:      "Total number of access tokens revoked via logout.",
	},
)
