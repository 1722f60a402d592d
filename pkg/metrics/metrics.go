package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "shopseed", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "shopseed", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	// SeedMutations counts applied plan steps by operation and outcome (ok|error|skipped).
	SeedMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "shopseed", Subsystem: "seed", Name: "mutations_total", Help: "Number of seed plan steps by operation and outcome."},
		[]string{"op", "outcome"},
	)
	SeedRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "shopseed", Subsystem: "seed", Name: "runs_total", Help: "Number of seed runs by outcome."},
		[]string{"outcome"},
	)

	StoreOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shopseed",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Latency of customer store operations.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"op"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(SeedMutations)
	reg.MustRegister(SeedRuns)
	reg.MustRegister(StoreOpDuration)
}
