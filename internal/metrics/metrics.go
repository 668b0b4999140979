package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the business counters exported on /metrics.
type Metrics struct {
	Logins       *prometheus.CounterVec
	Applications *prometheus.CounterVec
	Reviews      *prometheus.CounterVec
}

// New registers the counters on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leavedesk",
			Name:      "logins_total",
			Help:      "Sign-in and sign-up attempts by outcome.",
		}, []string{"kind", "outcome"}),
		Applications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leavedesk",
			Name:      "leave_applications_total",
			Help:      "Leave applications by category and outcome.",
		}, []string{"category", "outcome"}),
		Reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leavedesk",
			Name:      "leave_reviews_total",
			Help:      "Review decisions by decision and whether they were stored.",
		}, []string{"decision", "stored"}),
	}
	reg.MustRegister(m.Logins, m.Applications, m.Reviews)
	return m
}

// Nop returns counters registered on a throwaway registry.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
