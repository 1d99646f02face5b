package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Clock-out outcomes
const (
	OutcomeClosed        = "closed"
	OutcomeNoSession     = "no_session"
	OutcomeInvalid       = "invalid_session"
	OutcomePersistFailed = "persist_failed"
)

// Metrics holds the overtime engine instruments. A nil *Metrics is valid and records nothing.
type Metrics struct {
	clockOuts        *prometheus.CounterVec
	rulesFallbacks   prometheus.Counter
	historyFallbacks prometheus.Counter
	persistConflicts prometheus.Counter
	overtimeHours    prometheus.Histogram
	overtimeAmount   prometheus.Counter
}

// New creates the instruments and registers them on registerer.
// prometheus.DefaultRegisterer is used when registerer is nil.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		clockOuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hris",
			Subsystem: "overtime",
			Name:      "clock_outs_total",
			Help:      "Clock-out attempts by outcome.",
		}, []string{"outcome"}),
		rulesFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hris",
			Subsystem: "overtime",
			Name:      "rules_fallbacks_total",
			Help:      "Evaluations that used fallback rules because the configured rules could not be read.",
		}),
		historyFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hris",
			Subsystem: "overtime",
			Name:      "history_fallbacks_total",
			Help:      "Evaluations that assumed zero prior weekly hours because history could not be read.",
		}),
		persistConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hris",
			Subsystem: "overtime",
			Name:      "persist_conflicts_total",
			Help:      "Optimistic-concurrency conflicts while saving a breakdown.",
		}),
		overtimeHours: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hris",
			Subsystem: "overtime",
			Name:      "session_overtime_hours",
			Help:      "Overtime plus double-time hours per closed session.",
			Buckets:   []float64{0, 0.5, 1, 2, 4, 6, 8, 12},
		}),
		overtimeAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hris",
			Subsystem: "overtime",
			Name:      "amount_total",
			Help:      "Sum of overtime pay computed on clock-out.",
		}),
	}

	registerer.MustRegister(
		m.clockOuts,
		m.rulesFallbacks,
		m.historyFallbacks,
		m.persistConflicts,
		m.overtimeHours,
		m.overtimeAmount,
	)

	return m
}

func (m *Metrics) ClockOut(outcome string) {
	if m == nil {
		return
	}
	m.clockOuts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RulesFallback() {
	if m == nil {
		return
	}
	m.rulesFallbacks.Inc()
}

func (m *Metrics) HistoryFallback() {
	if m == nil {
		return
	}
	m.historyFallbacks.Inc()
}

func (m *Metrics) PersistConflict() {
	if m == nil {
		return
	}
	m.persistConflicts.Inc()
}

// ObserveBreakdown records the combined overtime hours and pay of a closed session.
func (m *Metrics) ObserveBreakdown(combinedHours, amount float64) {
	if m == nil {
		return
	}
	m.overtimeHours.Observe(combinedHours)
	if amount > 0 {
		m.overtimeAmount.Add(amount)
	}
}
