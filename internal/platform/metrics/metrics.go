package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gwconsole"

// GatewayMetrics records every call made through gateway.Client. It
// satisfies gateway.Observer.
type GatewayMetrics struct {
	CallsTotal   *prometheus.CounterVec
	CallDuration *prometheus.HistogramVec
	SessionReady prometheus.Gauge
}

// NewGatewayMetrics registers the collectors with reg. Passing nil uses the
// default registry.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &GatewayMetrics{
		CallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Total number of gateway calls by operation and status class.",
		}, []string{"operation", "status"}), // status: 2xx, 4xx, 5xx, transport_error
		CallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Gateway call latency in seconds.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		SessionReady: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "admin_authenticated",
			Help:      "1 when a validated admin key is loaded, 0 otherwise.",
		}),
	}
}

func (m *GatewayMetrics) ObserveCall(operation string, status int, elapsed time.Duration) {
	m.CallsTotal.WithLabelValues(operation, StatusClass(status)).Inc()
	m.CallDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// SetAdminAuthenticated flips the admin session gauge.
func (m *GatewayMetrics) SetAdminAuthenticated(ok bool) {
	if ok {
		m.SessionReady.Set(1)
		return
	}
	m.SessionReady.Set(0)
}

// StatusClass buckets an HTTP status as "2xx", "4xx" and so on. Zero means
// the request never got a response.
func StatusClass(status int) string {
	if status <= 0 {
		return "transport_error"
	}
	return fmt.Sprintf("%dxx", status/100)
}

// Handler exposes g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
