// Package health aggregates the health of running components into a single
// system status.
//
// A Monitor holds named checks. Each check reports a Status in one of three
// states:
//   - healthy: operating normally
//   - degraded: operating with reduced function
//   - unhealthy: not operating
//
// Check evaluates every registered check and aggregates the results. An
// unhealthy check makes the system unhealthy; otherwise a degraded check makes
// it degraded.
//
// Usage:
//
//	monitor := health.NewMonitor("semfwd")
//	monitor.RegisterComponent("router", proc)
//	monitor.Register("nats", func() health.Status {
//	    if client.IsHealthy() {
//	        return health.NewHealthy("nats", "connected")
//	    }
//	    return health.NewUnhealthy("nats", client.Status().String())
//	})
//	server := metric.NewServer(9090, "/metrics", registry,
//	    metric.WithHealthHandler(monitor.Handler()))
//
// Messages derived from component errors are sanitized: URLs, paths, IP
// addresses, ports and credentials are masked before they are served.
package health
