package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector groups the service's Prometheus instruments. All methods are
// safe on a nil receiver so domain code can run without metrics wired in.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
	importBatches   *prometheus.CounterVec
	importRows      prometheus.Counter
	validationFails *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
			[]string{"path", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests",
				Buckets: prometheus.DefBuckets,
			}, []string{"path", "method"},
		),
		importBatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "payroll_import_batches_total", Help: "Payroll batch imports by outcome"},
			[]string{"outcome"},
		),
		importRows: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "payroll_import_rows_total", Help: "Payroll rows committed by batch import"},
		),
		validationFails: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "payroll_validation_failures_total", Help: "Payroll validation failures by rule"},
			[]string{"rule"},
		),
	}
	reg.MustRegister(c.httpRequests, c.httpLatency, c.importBatches, c.importRows, c.validationFails)
	return c
}

func (c *Collector) RecordRequest(path, method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(path, method).Observe(duration.Seconds())
}

func (c *Collector) ImportCommitted(rows int) {
	if c == nil {
		return
	}
	c.importBatches.WithLabelValues("committed").Inc()
	c.importRows.Add(float64(rows))
}

func (c *Collector) ImportRejected(reason string) {
	if c == nil {
		return
	}
	c.importBatches.WithLabelValues(reason).Inc()
}

func (c *Collector) ValidationFailed(rule string) {
	if c == nil {
		return
	}
	c.validationFails.WithLabelValues(rule).Inc()
}
