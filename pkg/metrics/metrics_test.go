package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncBookingOutcome("created")
		m.ObserveLockWait(time.Millisecond)
		m.IncNotification("http", "ok")
		m.AddExpiredTokens(3)
		m.ObserveDBQuery("svc", "SELECT", time.Millisecond, nil)
		m.SetDBPoolStats("svc", sql.DBStats{})
		m.ObserveHTTPRequest("svc", "GET", "/", 200, time.Millisecond)
	})
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, "salon-booking")

	m.IncBookingOutcome("created")
	m.IncBookingOutcome("created")
	m.IncBookingOutcome("slot_unavailable")
	m.ObserveDBQuery("salon-booking", "INSERT", time.Millisecond, errors.New("boom"))
	m.ObserveDBQuery("salon-booking", "SELECT", time.Millisecond, sql.ErrNoRows)
	m.AddExpiredTokens(0)
	m.AddExpiredTokens(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingOutcomes.WithLabelValues("salon-booking", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingOutcomes.WithLabelValues("salon-booking", "slot_unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("salon-booking", "INSERT")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("salon-booking", "SELECT")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.expiredTokens.WithLabelValues("salon-booking")))
}
