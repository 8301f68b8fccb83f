package obs

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordMatrixBatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.ObserveMatrixBatch(200, 10*time.Millisecond)
	m.ObserveMatrixBatch(200, 20*time.Millisecond)
	m.ObserveMatrixBatch(429, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.MatrixRequests.WithLabelValues("200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.MatrixRequests.WithLabelValues("429")))
}

func TestMetricsReuseRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	second.ObserveReconstruction(4, 1, 3)
	require.Equal(t, 4.0, testutil.ToFloat64(first.ArchiveRoutes))
	require.Equal(t, 1.0, testutil.ToFloat64(first.ArchiveLinesDropped))
	require.Equal(t, 3.0, testutil.ToFloat64(first.OverflowUnitsTrimmed))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveMatrixBatch(200, time.Second)
	m.ObserveReconstruction(1, 1, 1)
}
