package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type operationMetrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newOperationMetrics(registry prometheus.Registerer) *operationMetrics {
	factory := promauto.With(registry)

	return &operationMetrics{
		total: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticket_escrow",
			Name:      "operations_total",
			Help:      "Ledger operations by name and result code.",
		}, []string{"operation", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ticket_escrow",
			Name:      "operation_duration_seconds",
			Help:      "Ledger operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *operationMetrics) observe(operation string, start time.Time, err error) {
	code := "ok"
	if err != nil {
		_, code = errorCode(err)
	}

	m.total.WithLabelValues(operation, code).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// instrument records every call of next as operation.
func (m *operationMetrics) instrument(operation string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		m.observe(operation, start, err)
		return err
	}
}
