package health

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"

	"github.com/c360/semfwd/component"
)

// Check reports the current status of one monitored part of the system.
type Check func() Status

// Monitor evaluates named checks and aggregates them into a system status.
type Monitor struct {
	system string

	mu     sync.RWMutex
	checks map[string]Check
}

// NewMonitor creates a monitor reporting under the given system name.
func NewMonitor(system string) *Monitor {
	return &Monitor{
		system: system,
		checks: make(map[string]Check),
	}
}

// Register adds or replaces the check for name.
func (m *Monitor) Register(name string, check Check) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[name] = check
}

// RegisterComponent registers a check that reads the component's health.
func (m *Monitor) RegisterComponent(name string, comp component.Discoverable) {
	m.Register(name, func() Status {
		return FromComponent(name, comp)
	})
}

// Remove removes a check from monitoring
func (m *Monitor) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.checks, name)
}

// ListComponents returns the names of all checks, sorted
func (m *Monitor) ListComponents() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.checks))
	for name := range m.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check runs every check and returns the aggregated status. Sub-statuses
// are ordered by name.
func (m *Monitor) Check() Status {
	names := m.ListComponents()

	m.mu.RLock()
	checks := make([]Check, 0, len(names))
	for _, name := range names {
		if check, ok := m.checks[name]; ok {
			checks = append(checks, check)
		}
	}
	m.mu.RUnlock()

	subStatuses := make([]Status, 0, len(checks))
	for _, check := range checks {
		subStatuses = append(subStatuses, check())
	}
	return Aggregate(m.system, subStatuses)
}

// Handler serves the aggregated status as JSON. Unhealthy systems answer
// 503, healthy and degraded ones 200.
func (m *Monitor) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status := m.Check()

		code := http.StatusOK
		if status.IsUnhealthy() {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	})
}
