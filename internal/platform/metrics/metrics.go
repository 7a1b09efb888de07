package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP level Prometheus metrics shared by every route.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// New creates and registers the HTTP metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "census_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern, method and status code",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route", "method", "status"}),

		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "census_http_requests_in_flight",
			Help: "Requests currently being served",
		}),
	}
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
	}
}

func (m *Metrics) IncInFlight() {
	if m != nil {
		m.InFlight.Inc()
	}
}

func (m *Metrics) DecInFlight() {
	if m != nil {
		m.InFlight.Dec()
	}
}
