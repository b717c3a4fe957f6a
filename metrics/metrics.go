package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nickel_advisor"

type Metrics struct {
	RoundingsTotal   *prometheus.CounterVec
	UnreachableTotal *prometheus.CounterVec
	CacheLookups     *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RoundingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roundings_total",
			Help:      "After-tax totals rounded, by rounding direction.",
		}, []string{"direction"}),
		UnreachableTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unreachable_suggestions_total",
			Help:      "Suggestion searches that found no reachable nickel, by role.",
		}, []string{"role"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Quote cache lookups, by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status code.",
		}, []string{"route", "code"}),
	}

	reg.MustRegister(m.RoundingsTotal, m.UnreachableTotal, m.CacheLookups, m.HTTPRequests)
	return m
}

// NewNop returns collectors registered with a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
