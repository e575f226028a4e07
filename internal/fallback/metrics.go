package fallback

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK    = "ok"
	outcomeMiss  = "miss"
	outcomeError = "error"
)

var (
	fallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gophcloud_fallback_total",
		Help: "Remote calls that failed and were served by the local tier.",
	}, []string{"op"})

	backendOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gophcloud_backend_ops_total",
		Help: "Storage calls per tier, operation and outcome.",
	}, []string{"tier", "op", "outcome"})
)

func observe(tier Tier, op, outcome string) {
	backendOps.WithLabelValues(string(tier), op, outcome).Inc()
}
