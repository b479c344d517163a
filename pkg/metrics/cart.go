package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutations and catalog round-trips.
type CartMetrics struct {
	operations      *prometheus.CounterVec
	catalogDuration *prometheus.HistogramVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations by operation and result.",
	}, []string{"op", "result"})
	catalogDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_request_duration_seconds",
		Help:    "Duration of stock and product lookups in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	reg.MustRegister(operations, catalogDuration)
	return &CartMetrics{
		operations:      operations,
		catalogDuration: catalogDuration,
	}
}

// IncOperation counts one cart mutation outcome.
func (c *CartMetrics) IncOperation(op, result string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(op), normalizeLabel(result)).Inc()
}

// ObserveCatalogRequest records a catalog round-trip for the endpoint.
func (c *CartMetrics) ObserveCatalogRequest(endpoint string, duration time.Duration) {
	if c == nil || c.catalogDuration == nil {
		return
	}
	c.catalogDuration.WithLabelValues(normalizeLabel(endpoint)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
