// Package metrics exposes Prometheus collectors for the registry.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Entity label values.
const (
	EntityNeighbor = "neighbor"
	EntityVehicle  = "vehicle"
	EntityPayment  = "payment"
)

// Metrics tracks record mutations, rejected uploads and HTTP latency.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RecordsCreated  *prometheus.CounterVec
	RecordsDeleted  *prometheus.CounterVec
	UploadsRejected prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecordsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "parkfees_records_created_total",
			Help: "Total number of records created, by entity",
		}, []string{"entity"}),
		RecordsDeleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "parkfees_records_deleted_total",
			Help: "Total number of records deleted by request, by entity",
		}, []string{"entity"}),
		UploadsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "parkfees_uploads_rejected_total",
			Help: "Total number of evidence uploads rejected for their file type",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "parkfees_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method, route pattern and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
}

// IncrementCreated records one created record of entity.
func (m *Metrics) IncrementCreated(entity string) {
	if m == nil {
		return
	}
	m.RecordsCreated.WithLabelValues(entity).Inc()
}

// AddDeleted records n deleted records of entity.
func (m *Metrics) AddDeleted(entity string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RecordsDeleted.WithLabelValues(entity).Add(float64(n))
}

// IncrementUploadRejected records a rejected upload.
func (m *Metrics) IncrementUploadRejected() {
	if m == nil {
		return
	}
	m.UploadsRejected.Inc()
}

// ObserveRequest records the duration of an HTTP request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
