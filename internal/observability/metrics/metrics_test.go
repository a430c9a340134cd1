package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilReceiverIsSafe(t *testing.T) {
	var m *AgendaMetrics
	assert.NotPanics(t, func() {
		m.RecordBooking("confirmed")
		m.ObserveDayLoad(time.Second)
		m.RecordGridBuild()
		m.LiveClientConnected()
		m.LiveClientDisconnected()
	})
}

func TestRecordBookingByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordBooking("confirmed")
	m.RecordBooking("confirmed")
	m.RecordBooking("rejected_conflict")

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "agenda_bookings_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" {
					counts[label.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, 2.0, counts["confirmed"])
	assert.Equal(t, 1.0, counts["rejected_conflict"])
}

func TestLiveClientGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.LiveClientConnected()
	m.LiveClientConnected()
	m.LiveClientDisconnected()

	families, err := reg.Gather()
	require.NoError(t, err)

	var gauge *dto.Gauge
	for _, mf := range families {
		if mf.GetName() == "agenda_live_clients" {
			gauge = mf.GetMetric()[0].GetGauge()
		}
	}
	require.NotNil(t, gauge)
	assert.Equal(t, 1.0, gauge.GetValue())
}
