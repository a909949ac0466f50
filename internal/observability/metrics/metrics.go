package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flows.
type BookingMetrics struct {
	createdTotal     prometheus.Counter
	transitionsTotal *prometheus.CounterVec
	conflictsTotal   prometheus.Counter
	slotQuerySeconds prometheus.Histogram
}

// NewBookingMetrics registers booking metrics on the given registerer.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		createdTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barbershop",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Total bookings created",
		}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barbershop",
			Subsystem: "bookings",
			Name:      "transitions_total",
			Help:      "Total lifecycle transitions by action and outcome",
		}, []string{"action", "outcome"}),
		conflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barbershop",
			Subsystem: "bookings",
			Name:      "slot_conflicts_total",
			Help:      "Total create attempts rejected by the slot uniqueness constraint",
		}),
		slotQuerySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "barbershop",
			Subsystem: "bookings",
			Name:      "slot_query_seconds",
			Help:      "Latency of availability computations",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.transitionsTotal, m.conflictsTotal, m.slotQuerySeconds)
	return m
}

// ObserveCreated counts a successful booking creation.
func (m *BookingMetrics) ObserveCreated() {
	if m == nil {
		return
	}
	m.createdTotal.Inc()
}

// ObserveTransition counts a confirm/cancel attempt by outcome
// (applied, noop, denied).
func (m *BookingMetrics) ObserveTransition(action, outcome string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(action, outcome).Inc()
}

// ObserveConflict counts a create rejected as a double-booking.
func (m *BookingMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflictsTotal.Inc()
}

// ObserveSlotQuery records how long one availability computation took.
func (m *BookingMetrics) ObserveSlotQuery(seconds float64) {
	if m == nil {
		return
	}
	m.slotQuerySeconds.Observe(seconds)
}
