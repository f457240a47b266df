// Package metrics defines all custom Prometheus metrics for the accounts
// API. It is the single source of truth for metric names, labels, and help
// strings; HTTP-level metrics come from the echoprometheus middleware and
// are not declared here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// RegistrationsTotal counts successfully created accounts.
// Label:
//   - role: the role assigned at registration ("TENANT" or "LANDLORD")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts. Failures are not broken down further:
// distinguishing unknown-username from wrong-password in a metric would
// undo the anti-enumeration property at the observability layer.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PasswordChangesTotal counts password-change attempts.
// Label:
//   - result: "success" or "failure"
var PasswordChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_changes_total",
		Help:      "Total number of password change attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts access-token refresh attempts.
// Label:
//   - result: "success" or "failure"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of access token refreshes, by result.",
	},
	[]string{"result"},
)
