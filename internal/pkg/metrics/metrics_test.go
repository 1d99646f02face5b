package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ClockOutOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ClockOut(OutcomeClosed)
	m.ClockOut(OutcomeClosed)
	m.ClockOut(OutcomeNoSession)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.clockOuts.WithLabelValues(OutcomeClosed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clockOuts.WithLabelValues(OutcomeNoSession)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.clockOuts.WithLabelValues(OutcomePersistFailed)))
}

func TestMetrics_Fallbacks(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RulesFallback()
	m.HistoryFallback()
	m.HistoryFallback()
	m.PersistConflict()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.rulesFallbacks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.historyFallbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistConflicts))
}

func TestMetrics_ObserveBreakdown(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveBreakdown(5, 200)
	m.ObserveBreakdown(0, 0)

	assert.Equal(t, 200.0, testutil.ToFloat64(m.overtimeAmount))
	assert.Equal(t, 1, testutil.CollectAndCount(m.overtimeHours))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ClockOut(OutcomeClosed)
		m.RulesFallback()
		m.HistoryFallback()
		m.PersistConflict()
		m.ObserveBreakdown(1, 1)
	})
}
