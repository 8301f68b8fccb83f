package obs

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus collectors for archive reconstruction and
// matrix acquisition. A nil *Metrics is valid and records nothing.
type Metrics struct {
	MatrixRequests       *prometheus.CounterVec
	MatrixBatchDuration  prometheus.Histogram
	ArchiveRoutes        prometheus.Counter
	ArchiveLinesDropped  prometheus.Counter
	OverflowUnitsTrimmed prometheus.Counter
}

// NewMetrics registers the collectors against reg, defaulting to the global
// registry when nil. Collectors already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matrix_requests_total",
		Help: "Distance-matrix requests sent, labeled by response status code.",
	}, []string{"status"}))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "matrix_batch_duration_seconds",
		Help:    "Latency of one distance-matrix batch, including validation.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}))
	if err != nil {
		return nil, err
	}

	routes, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "archive_routes_total",
		Help: "Routes reconstructed from delivery archives.",
	}))
	if err != nil {
		return nil, err
	}

	dropped, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "archive_lines_dropped_total",
		Help: "Archive lines dropped because their store code matched no location.",
	}))
	if err != nil {
		return nil, err
	}

	trimmed, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "archive_overflow_units_trimmed_total",
		Help: "Pallets removed from over-capacity routes during normalization.",
	}))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		MatrixRequests:       requests,
		MatrixBatchDuration:  duration,
		ArchiveRoutes:        routes,
		ArchiveLinesDropped:  dropped,
		OverflowUnitsTrimmed: trimmed,
	}, nil
}

func (m *Metrics) ObserveMatrixBatch(status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.MatrixRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	m.MatrixBatchDuration.Observe(dur.Seconds())
}

func (m *Metrics) ObserveReconstruction(routes, dropped, trimmed int) {
	if m == nil {
		return
	}
	m.ArchiveRoutes.Add(float64(routes))
	m.ArchiveLinesDropped.Add(float64(dropped))
	m.OverflowUnitsTrimmed.Add(float64(trimmed))
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("register metrics: %w", err)
	}
	return c, nil
}
