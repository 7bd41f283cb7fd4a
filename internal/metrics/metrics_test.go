package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementCreated(EntityPayment)
	m.IncrementCreated(EntityPayment)
	m.AddDeleted(EntityVehicle, 3)
	m.AddDeleted(EntityVehicle, 0)
	m.IncrementUploadRejected()
	m.ObserveRequest("GET", "/portal", 200, time.Now())

	if got := testutil.ToFloat64(m.RecordsCreated.WithLabelValues(EntityPayment)); got != 2 {
		t.Errorf("created payments = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RecordsDeleted.WithLabelValues(EntityVehicle)); got != 3 {
		t.Errorf("deleted vehicles = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.UploadsRejected); got != 1 {
		t.Errorf("rejected uploads = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.RequestDuration); got != 1 {
		t.Errorf("request duration series = %d, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.IncrementCreated(EntityNeighbor)
	m.AddDeleted(EntityNeighbor, 1)
	m.IncrementUploadRejected()
	m.ObserveRequest("GET", "/", 200, time.Now())
}
