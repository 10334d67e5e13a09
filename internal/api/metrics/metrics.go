// Package metrics defines and registers all custom Prometheus metrics for the
// clearance marketplace API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clearance"

// RequestsCreatedTotal counts newly created clearance requests.
// Label:
//   - country: destination country of the cargo
var RequestsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_created_total",
		Help:      "Total number of clearance requests created, by destination country.",
	},
	[]string{"country"},
)

// StatusTransitionsTotal counts clearance request status changes.
// Label:
//   - status: the status being applied
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of clearance request status transitions.",
	},
	[]string{"status"},
)

// AssignmentsTotal counts agent assignments to clearance requests.
var AssignmentsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignments_total",
		Help:      "Total number of agent assignments to clearance requests.",
	},
)

// RatingsRecordedTotal counts rating writes by score.
// Label:
//   - score: the submitted score ("1".."5")
var RatingsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_recorded_total",
		Help:      "Total number of ratings recorded, by score.",
	},
	[]string{"score"},
)

// VerificationsReviewedTotal counts admin verification decisions.
// Label:
//   - decision: "approved" or "rejected"
var VerificationsReviewedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_reviewed_total",
		Help:      "Total number of verification requests reviewed, by decision.",
	},
	[]string{"decision"},
)
