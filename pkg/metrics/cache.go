package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the widget collectors on a dedicated prometheus registry so
// tests and multiple instances never collide on the global default.
type Registry struct {
	reg      *prometheus.Registry
	lookups  *prometheus.CounterVec
	builds   *prometheus.CounterVec
	requests *prometheus.CounterVec
}

// NewRegistry creates and registers the collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "faq_markup_cache_lookups_total",
				Help: "Markup cache lookups by tier and result",
			},
			[]string{"tier", "result"},
		),
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "faq_markup_builds_total",
				Help: "Markup builds by outcome",
			},
			[]string{"outcome"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "faq_filter_requests_total",
				Help: "Filter endpoint requests by outcome",
			},
			[]string{"outcome"},
		),
	}
	r.reg.MustRegister(r.lookups, r.builds, r.requests)
	return r
}

// CacheLookup records a tier lookup; result is "hit" or "miss".
func (r *Registry) CacheLookup(tier, result string) {
	r.lookups.WithLabelValues(tier, result).Inc()
}

// Build records a markup build; outcome is "ok" or "degraded".
func (r *Registry) Build(outcome string) {
	r.builds.WithLabelValues(outcome).Inc()
}

// FilterRequest records a filter endpoint outcome.
func (r *Registry) FilterRequest(outcome string) {
	r.requests.WithLabelValues(outcome).Inc()
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
