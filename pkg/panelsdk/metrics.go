package panelsdk

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records gateway calls by operation name rather than raw path so
// product IDs do not explode label cardinality.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics registers the gateway metrics with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "renart_panel_api_requests_total",
				Help: "Total number of vendor API calls by operation and status code",
			},
			[]string{"op", "code"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "renart_panel_api_request_duration_seconds",
				Help:    "Vendor API call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"op"},
		),
	}
}

// observe is nil-safe so Client.Metrics can stay optional. Status 0 is
// recorded as code "network".
func (m *Metrics) observe(op string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := "network"
	if status != 0 {
		code = strconv.Itoa(status)
	}
	m.Requests.WithLabelValues(op, code).Inc()
	m.Duration.WithLabelValues(op).Observe(d.Seconds())
}
