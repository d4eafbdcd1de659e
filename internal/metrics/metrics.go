package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics: счётчики ядра бронирования. Все методы безопасны на nil.
type SchedulingMetrics struct {
	transitions      *prometheus.CounterVec
	claimConflicts   *prometheus.CounterVec
	slotsGenerated   prometheus.Counter
	configConflicts  prometheus.Counter
	notifyFailures   *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Order lifecycle operations by outcome",
		}, []string{"operation", "outcome"}),
		claimConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "slots",
			Name:      "claim_conflicts_total",
			Help:      "Slot claims lost to a concurrent order",
		}, []string{"operation"}),
		slotsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "slots",
			Name:      "generated_total",
			Help:      "Slots inserted by generation",
		}),
		configConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "slots",
			Name:      "template_conflicts_total",
			Help:      "Overlapping template intervals skipped during generation",
		}),
		notifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "notify",
			Name:      "publish_failures_total",
			Help:      "Order events that could not be published",
		}, []string{"operation"}),
		operationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scheduling",
			Subsystem: "orders",
			Name:      "operation_duration_seconds",
			Help:      "Latency of order lifecycle operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.transitions,
		m.claimConflicts,
		m.slotsGenerated,
		m.configConflicts,
		m.notifyFailures,
		m.operationLatency,
	)
	return m
}

// ObserveTransition учитывает операцию; outcome: "ok" или вид ошибки.
func (m *SchedulingMetrics) ObserveTransition(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(operation, outcome).Inc()
	m.operationLatency.WithLabelValues(operation).Observe(seconds)
}

func (m *SchedulingMetrics) ObserveClaimConflict(operation string) {
	if m == nil {
		return
	}
	m.claimConflicts.WithLabelValues(operation).Inc()
}

func (m *SchedulingMetrics) ObserveGenerated(created, conflicts int) {
	if m == nil {
		return
	}
	m.slotsGenerated.Add(float64(created))
	m.configConflicts.Add(float64(conflicts))
}

func (m *SchedulingMetrics) ObserveNotifyFailure(operation string) {
	if m == nil {
		return
	}
	m.notifyFailures.WithLabelValues(operation).Inc()
}
