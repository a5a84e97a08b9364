package obs

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestDomainMetricsRegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegisterDomainMetrics("billing", reg)
	MustRegisterDomainMetrics("billing", reg)

	IncCounter(BillsGeneratedTotal, "ok")
	IncCounter(BillLinesSkippedTotal, "unknown_product")
	IncCounter(BillLinesSkippedTotal, "unknown_product")

	require.Equal(t, 1.0, testutil.ToFloat64(BillsGeneratedTotal.WithLabelValues("ok")))
	require.Equal(t, 2.0, testutil.ToFloat64(BillLinesSkippedTotal.WithLabelValues("unknown_product")))
}

func TestIncCounterNilSafe(t *testing.T) {
	require.NotPanics(t, func() { IncCounter(nil, "x") })
}
