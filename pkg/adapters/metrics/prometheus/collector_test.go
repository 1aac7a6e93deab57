package prometheus_test

import (
	"testing"
	"time"

	collector "github.com/aescanero/booking-api/pkg/adapters/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := collector.NewCollector(reg)

	c.ObserveHTTPRequest("GET", "/api/health", 200, 3*time.Millisecond)
	c.ObserveHTTPRequest("GET", "/api/health", 200, 4*time.Millisecond)
	c.ObserveHTTPRequest("GET", "unmatched", 404, time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var requests float64
	for _, mf := range families {
		if mf.GetName() != "booking_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			requests += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(3), requests)

	series, err := testutil.GatherAndCount(reg, "booking_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestRecordDatabaseCheck(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := collector.NewCollector(reg)

	c.RecordDatabaseCheck(true, 2*time.Millisecond)

	gauge, err := gaugeValue(reg, "booking_database_up")
	require.NoError(t, err)
	assert.Equal(t, float64(1), gauge)

	c.RecordDatabaseCheck(false, 2*time.Second)

	gauge, err = gaugeValue(reg, "booking_database_up")
	require.NoError(t, err)
	assert.Equal(t, float64(0), gauge)

	series, err := testutil.GatherAndCount(reg, "booking_database_checks_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestNewCollectorSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		collector.NewCollector(prometheus.NewRegistry())
		collector.NewCollector(prometheus.NewRegistry())
	})
}

func gaugeValue(reg *prometheus.Registry, name string) (float64, error) {
	families, err := reg.Gather()
	if err != nil {
		return 0, err
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetGauge().GetValue(), nil
		}
	}
	return 0, nil
}
