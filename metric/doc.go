// Package metric provides the Prometheus registry shared by semfwd components
// and the HTTP server that exposes it.
//
// Components receive a *MetricsRegistry through their dependencies and
// register their own collectors under a component name:
//
//	routed := prometheus.NewCounterVec(prometheus.CounterOpts{
//	    Namespace: metric.Namespace,
//	    Subsystem: "forward",
//	    Name:      "routed_total",
//	}, []string{"component", "input", "output"})
//	if err := registry.RegisterCounterVec(name, "routed_total", routed); err != nil {
//	    return err
//	}
//
// Registering the same metric name twice for a component is an invalid error.
package metric
