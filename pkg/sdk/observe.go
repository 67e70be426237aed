package strindex

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation statuses used as the "status" metric label.
const (
	statusOK         = "ok"
	statusNotFound   = "not_found"
	statusRejected   = "rejected"
	statusConflict   = "conflict"
	statusCapacity   = "store_full"
	statusOtherError = "error"
)

// sdkMetrics are the strindex_sdk_* collectors.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	results    *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	const ns, sub = "strindex", "sdk"
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "operations_total",
			Help: "SDK calls by operation and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: sub,
			Name:    "operation_duration_seconds",
			Help:    "SDK call latency.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 10, 6),
		}, []string{"operation"}),
		results: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: sub,
			Name:    "results",
			Help:    "Strings returned by list and query calls.",
			Buckets: []float64{0, 1, 5, 25, 100, 500, 2500},
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.results); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("strindex: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("strindex: register metric: %w", err)
	}
	return nil
}

// statusOf classifies an operation error for the status label.
// Caller mistakes (bad input, duplicates) are kept apart from real failures.
func statusOf(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrNotFound):
		return statusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflictingFilters):
		return statusConflict
	case errors.Is(err, ErrEmptyValue), errors.Is(err, ErrInvalidValue), errors.Is(err, ErrUnparseable):
		return statusRejected
	case errors.Is(err, ErrStoreFull):
		return statusCapacity
	default:
		return statusOtherError
	}
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// resultSize records how many strings a successful list or query returned.
func (o *observer) resultSize(op string, n int) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.results.WithLabelValues(op).Observe(float64(n))
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := statusOf(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	switch status {
	case statusOK:
		o.logger.Debug("operation completed", "op", op, "duration", dur)
	case statusOtherError, statusCapacity:
		o.logger.Warn("operation failed", "op", op, "duration", dur, "status", status, "error", err)
	default:
		o.logger.Debug("operation rejected", "op", op, "duration", dur, "status", status, "error", err)
	}
}
