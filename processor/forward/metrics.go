package forward

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/semfwd/errors"
	"github.com/c360/semfwd/forwarding"
	"github.com/c360/semfwd/matching"
	"github.com/c360/semfwd/metric"
)

// forwardMetrics holds Prometheus metrics for a forward processor and
// receives engine events as a forwarding.Observer.
type forwardMetrics struct {
	component string

	records       *prometheus.CounterVec   // By component and status (forwarded/failed/skipped)
	routed        *prometheus.CounterVec   // By component, input and output
	errors        *prometheus.CounterVec   // By component and reason
	cycleDuration *prometheus.HistogramVec // By component
	inboxDropped  *prometheus.CounterVec   // By component and input
	tableEntries  *prometheus.GaugeVec     // By component and property
}

// newForwardMetrics creates and registers forward metrics with the provided registry.
// A nil registry disables metrics.
func newForwardMetrics(registry *metric.MetricsRegistry, componentName string) (*forwardMetrics, error) {
	if registry == nil {
		return nil, nil
	}

	m := &forwardMetrics{
		component: componentName,

		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "forward",
			Name:      "records_total",
			Help:      "Total number of records handled per cycle by status",
		}, []string{"component", "status"}),

		routed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "forward",
			Name:      "routed_total",
			Help:      "Total number of records forwarded from an input to an output",
		}, []string{"component", "input", "output"}),

		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "forward",
			Name:      "errors_total",
			Help:      "Total number of forwarding failures by reason",
		}, []string{"component", "reason"}),

		cycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metric.Namespace,
			Subsystem: "forward",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of one forwarding cycle in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"component"}),

		inboxDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "forward",
			Name:      "inbox_dropped_total",
			Help:      "Total number of payloads lost to inbox overflow",
		}, []string{"component", "input"}),

		tableEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metric.Namespace,
			Subsystem: "forward",
			Name:      "table_entries",
			Help:      "Number of entries loaded per table property",
		}, []string{"component", "property"}),
	}

	if err := registry.RegisterCounterVec(componentName, "records_total", m.records); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec(componentName, "routed_total", m.routed); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec(componentName, "errors_total", m.errors); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogramVec(componentName, "cycle_duration_seconds", m.cycleDuration); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec(componentName, "inbox_dropped_total", m.inboxDropped); err != nil {
		return nil, err
	}
	if err := registry.RegisterGaugeVec(componentName, "table_entries", m.tableEntries); err != nil {
		return nil, err
	}

	return m, nil
}

var _ forwarding.Observer = (*forwardMetrics)(nil)

func (m *forwardMetrics) EntryAdded(property string, _ matching.Entry, added bool) {
	if m == nil || !added {
		return
	}
	m.tableEntries.WithLabelValues(m.component, property).Inc()
}

func (m *forwardMetrics) Forwarded(d forwarding.Decision) {
	if m == nil {
		return
	}
	m.routed.WithLabelValues(m.component, d.Input, d.Output).Inc()
}

func (m *forwardMetrics) RecordFailed(_ string, err error) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(m.component, errors.Reason(err)).Inc()
}

func (m *forwardMetrics) InputFailed(_ string, err error) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(m.component, errors.Reason(err)).Inc()
}

func (m *forwardMetrics) CycleCompleted(r forwarding.CycleReport) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(m.component, "forwarded").Add(float64(r.Forwarded))
	m.records.WithLabelValues(m.component, "failed").Add(float64(r.Failed))
	m.records.WithLabelValues(m.component, "skipped").Add(float64(r.Skipped))
	m.cycleDuration.WithLabelValues(m.component).Observe(r.Duration.Seconds())
}

func (m *forwardMetrics) recordInboxDrop(input string) {
	if m == nil {
		return
	}
	m.inboxDropped.WithLabelValues(m.component, input).Inc()
}
