// Package metrics defines all custom Prometheus metrics for the billing
// backend's authentication core. It is the single source of truth for metric
// names, labels, and help strings. Metrics register themselves with the
// default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "billing"

// OTPSendsTotal counts OTP send requests.
// Label:
//   - result: "sent", "rate_limited", "account_disabled", or "error"
var OTPSendsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_sends_total",
		Help:      "Total number of OTP send requests, labelled by result.",
	},
	[]string{"result"},
)

// OTPVerificationsTotal counts OTP verification attempts.
// Label:
//   - result: "verified", "invalid_code", "locked_out", "access_denied",
//     "user_not_found", "account_disabled", or "error"
var OTPVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verifications_total",
		Help:      "Total number of OTP verification attempts, labelled by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts password login attempts.
// Label:
//   - result: "ok", "invalid_credentials", "account_disabled",
//     "access_denied", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of password login attempts, labelled by result.",
	},
	[]string{"result"},
)
