package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/api/bookings", "200", time.Millisecond)
		m.ObserveDBQuery("exec", time.Millisecond, nil)
		m.SetPoolStats(1, 1, 0)
		m.ObserveStoreOperation("file", "list", time.Now())
		m.IncBookingOutcome("created")
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "slotboard-test")

	m.IncBookingOutcome("created")
	m.IncBookingOutcome("created")
	m.IncBookingOutcome("needs_replace")
	m.ObserveHTTPRequest("POST", "/api/bookings", "200", 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingOutcomes.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingOutcomes.WithLabelValues("needs_replace")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/bookings", "200")))
}
