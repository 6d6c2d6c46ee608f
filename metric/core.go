package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Component status values reported by ComponentStatus.
const (
	StatusStopped  = 0
	StatusStarting = 1
	StatusRunning  = 2
	StatusStopping = 3
	StatusFailed   = 4
)

// Metrics contains platform-level metrics shared by all components.
type Metrics struct {
	ComponentStatus *prometheus.GaugeVec
	NATSConnected   prometheus.Gauge
	NATSReconnects  prometheus.Counter
}

// NewMetrics creates the platform metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		ComponentStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "component",
				Name:      "status",
				Help:      "Component status (0=stopped, 1=starting, 2=running, 3=stopping, 4=failed)",
			},
			[]string{"component"},
		),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "nats",
			Name:      "connected",
			Help:      "NATS connection status (0=disconnected, 1=connected)",
		}),
		NATSReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "nats",
			Name:      "reconnects_total",
			Help:      "Total number of NATS reconnections",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.ComponentStatus, m.NATSConnected, m.NATSReconnects}
}

// RecordComponentStatus sets the status gauge of a component.
func (m *Metrics) RecordComponentStatus(component string, status int) {
	if m == nil {
		return
	}
	m.ComponentStatus.WithLabelValues(component).Set(float64(status))
}

// RecordNATSStatus records the NATS connection state.
func (m *Metrics) RecordNATSStatus(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.NATSConnected.Set(1)
	} else {
		m.NATSConnected.Set(0)
	}
}

// RecordNATSReconnect counts one reconnection.
func (m *Metrics) RecordNATSReconnect() {
	if m == nil {
		return
	}
	m.NATSReconnects.Inc()
}
