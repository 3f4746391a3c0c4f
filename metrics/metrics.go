package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terms_lookups_total",
			Help: "Total number of concept lookups.",
		},
		[]string{"result"},
	)
	CapacityViolations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "terms_capacity_violations_total",
			Help: "Total number of rejected inserts into full single-entry slots.",
		},
	)
	RegisteredConcepts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "terms_registered_concepts",
			Help: "Number of concepts currently registered.",
		},
	)
)

func init() {
	prometheus.MustRegister(Lookups)
	prometheus.MustRegister(CapacityViolations)
	prometheus.MustRegister(RegisteredConcepts)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
