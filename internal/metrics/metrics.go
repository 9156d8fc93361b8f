// Package metrics registers the Prometheus collectors exposed by the
// HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IntakeTotal counts work items created through any surface.
	IntakeTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workalloc_intake_total",
		Help: "Number of work items created.",
	})

	// AssignTotal counts assignment attempts by outcome.
	AssignTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workalloc_assign_total",
		Help: "Number of assignment calls by outcome.",
	}, []string{"outcome"})

	// TopScore observes the composite score of the chosen candidate.
	TopScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "workalloc_top_score",
		Help:    "Composite score of the selected candidate.",
		Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
	})
)

// Assignment outcome labels.
const (
	OutcomeAssigned    = "assigned"
	OutcomeNoCandidate = "no_candidate"
	OutcomeError       = "error"
)
