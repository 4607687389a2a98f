package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	Customers       prometheus.Gauge
	EventsPublished *prometheus.CounterVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "customer_service_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		Customers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "customer_service_customers",
				Help: "Number of customer records in storage at the last stats run.",
			},
		),
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_service_events_published_total",
				Help: "Total number of customer lifecycle events handed to the broker.",
			},
			[]string{"routing_key", "status"},
		),
	}
)

func RecordDBQuery(queryName string, err error, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, statusOf(err == nil)).Observe(duration.Seconds())
}

func SetCustomerCount(count int64) {
	Business.Customers.Set(float64(count))
}

func RecordEventPublished(routingKey string, ok bool) {
	Business.EventsPublished.WithLabelValues(routingKey, statusOf(ok)).Inc()
}

func statusOf(ok bool) string {
	if ok {
		return StatusSuccess
	}
	return StatusError
}
