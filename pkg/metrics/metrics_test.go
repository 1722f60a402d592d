package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { RegisterCollectors(reg) })

	SeedRuns.WithLabelValues("ok").Inc()
	StoreOpDuration.WithLabelValues("insertOne").Observe(0.002)

	n, err := testutil.GatherAndCount(reg, "shopseed_seed_runs_total", "shopseed_store_operation_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// a second registration on the same registry must fail loudly
	require.Panics(t, func() { RegisterCollectors(reg) })
}
