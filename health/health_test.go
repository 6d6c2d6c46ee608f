package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfwd/component"
)

type stubComponent struct {
	health component.HealthStatus
	flow   component.FlowMetrics
}

func (s *stubComponent) Meta() component.Metadata             { return component.Metadata{Name: "stub"} }
func (s *stubComponent) InputPorts() []component.Port         { return nil }
func (s *stubComponent) OutputPorts() []component.Port        { return nil }
func (s *stubComponent) ConfigSchema() component.ConfigSchema { return component.ConfigSchema{} }
func (s *stubComponent) Health() component.HealthStatus       { return s.health }
func (s *stubComponent) DataFlow() component.FlowMetrics      { return s.flow }

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		subs  []Status
		state string
	}{
		{"empty", nil, StateHealthy},
		{"all healthy", []Status{NewHealthy("a", ""), NewHealthy("b", "")}, StateHealthy},
		{"one degraded", []Status{NewHealthy("a", ""), NewDegraded("b", "")}, StateDegraded},
		{"unhealthy wins", []Status{NewDegraded("a", ""), NewUnhealthy("b", "")}, StateUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := Aggregate("system", tt.subs)
			assert.Equal(t, tt.state, status.Status)
			assert.Equal(t, tt.state == StateHealthy, status.Healthy)
			assert.Len(t, status.SubStatuses, len(tt.subs))
		})
	}
}

func TestFromComponent(t *testing.T) {
	comp := &stubComponent{
		health: component.HealthStatus{Healthy: true, Uptime: time.Minute, ErrorCount: 1},
		flow:   component.FlowMetrics{ErrorRate: 0.1, MessagesPerSecond: 20},
	}

	status := FromComponent("router", comp)
	assert.Equal(t, StateHealthy, status.Status)
	require.NotNil(t, status.Metrics)
	assert.Equal(t, time.Minute, status.Metrics.Uptime)
	assert.Equal(t, 1, status.Metrics.ErrorCount)
	assert.InDelta(t, 20.0, status.Metrics.MessagesPerSec, 1e-9)

	comp.flow.ErrorRate = 0.9
	assert.Equal(t, StateDegraded, FromComponent("router", comp).Status)

	comp.health = component.HealthStatus{Healthy: false, LastError: "dial nats://10.0.0.1:4222 failed password=hunter2"}
	status = FromComponent("router", comp)
	assert.Equal(t, StateUnhealthy, status.Status)
	assert.NotContains(t, status.Message, "10.0.0.1")
	assert.NotContains(t, status.Message, "hunter2")
	assert.Contains(t, status.Message, "[URL]")
}

func TestSanitizeErrorMessage(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain failure", "plain failure"},
		{"open /etc/semfwd/forward.yaml", "open [PATH]"},
		{"host 192.168.1.100 refused", "host [IP] refused"},
		{"token=abc123", "[REDACTED]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeErrorMessage(tt.in), tt.in)
	}
}

func TestMonitor_Check(t *testing.T) {
	m := NewMonitor("semfwd")
	m.Register("nats", func() Status { return NewHealthy("nats", "connected") })
	m.RegisterComponent("router", &stubComponent{health: component.HealthStatus{Healthy: true}})

	assert.Equal(t, []string{"nats", "router"}, m.ListComponents())

	status := m.Check()
	assert.Equal(t, "semfwd", status.Component)
	assert.True(t, status.IsHealthy())
	require.Len(t, status.SubStatuses, 2)
	assert.Equal(t, "nats", status.SubStatuses[0].Component)
	assert.Equal(t, "router", status.SubStatuses[1].Component)

	m.Register("nats", func() Status { return NewUnhealthy("nats", "disconnected") })
	assert.True(t, m.Check().IsUnhealthy())

	m.Remove("nats")
	assert.True(t, m.Check().IsHealthy())
}

func TestMonitor_Handler(t *testing.T) {
	m := NewMonitor("semfwd")
	m.Register("nats", func() Status { return NewHealthy("nats", "connected") })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StateHealthy, body.Status)

	m.Register("nats", func() Status { return NewUnhealthy("nats", "disconnected") })
	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMonitor_ConcurrentAccess(t *testing.T) {
	m := NewMonitor("semfwd")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Register("nats", func() Status { return NewHealthy("nats", "") })
		}()
		go func() {
			defer wg.Done()
			_ = m.Check()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, len(m.ListComponents()))
}
