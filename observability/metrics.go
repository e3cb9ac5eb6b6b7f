package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RPCMetrics records per-method JSON-RPC dispatch activity: call counts,
// response-time distributions segmented by outcome, and request sizes.
type RPCMetrics struct {
	methodCalls  *prometheus.CounterVec
	responseTime *prometheus.HistogramVec
	requestSize  *prometheus.HistogramVec
}

// NewRPCMetrics builds an RPC metric set registered against the supplied
// registerer. Each serving variant owns its own set so the two variants'
// observations stay separable; tests pass their own registry.
func NewRPCMetrics(reg prometheus.Registerer, namespace string) *RPCMetrics {
	m := &RPCMetrics{
		methodCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "method_calls_total",
			Help:      "Total JSON-RPC calls segmented by method.",
		}, []string{"method"}),
		responseTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "response_time_seconds",
			Help:      "Dispatch latency segmented by method and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "outcome"}),
		requestSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "request_size_bytes",
			Help:      "Raw request body sizes segmented by method.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}, []string{"method"}),
	}
	reg.MustRegister(m.methodCalls, m.responseTime, m.requestSize)
	return m
}

// IncMethodCall increments the call counter for the given method.
func (m *RPCMetrics) IncMethodCall(method string) {
	if m == nil {
		return
	}
	m.methodCalls.WithLabelValues(method).Inc()
}

// ObserveResponseTime records one dispatch latency observation. The outcome
// is "success", a stringified error code, or the unknown-handler label.
func (m *RPCMetrics) ObserveResponseTime(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.responseTime.WithLabelValues(method, outcome).Observe(elapsed.Seconds())
}

// RegisterRequestSize records the raw byte size of one request body.
func (m *RPCMetrics) RegisterRequestSize(method string, bytes int) {
	if m == nil {
		return
	}
	m.requestSize.WithLabelValues(method).Observe(float64(bytes))
}
