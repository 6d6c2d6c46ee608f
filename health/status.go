package health

import (
	"regexp"
	"strings"
	"time"

	"github.com/c360/semfwd/component"
)

// Health states
const (
	StateHealthy   = "healthy"
	StateDegraded  = "degraded"
	StateUnhealthy = "unhealthy"
)

var (
	urlRegex        = regexp.MustCompile(`(?:https?|nats|tls|wss?)://[^\s]+`)
	unixPathRegex   = regexp.MustCompile(`/[a-zA-Z0-9/_.-]+`)
	ipAddrRegex     = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)
	portRegex       = regexp.MustCompile(`:\d{2,5}\b`)
	credentialRegex = regexp.MustCompile(`(?i)(password|token|key|secret|credential)[^a-zA-Z]*[:=][^,\s}]+`)
)

// Status represents the health state of a component or system
type Status struct {
	Component   string    `json:"component"`
	Healthy     bool      `json:"healthy"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	SubStatuses []Status  `json:"sub_statuses,omitempty"`
	Metrics     *Metrics  `json:"metrics,omitempty"`
}

// Metrics contains health-related metrics
type Metrics struct {
	Uptime         time.Duration `json:"uptime"`
	ErrorCount     int           `json:"error_count"`
	ErrorRate      float64       `json:"error_rate,omitempty"`
	LastActivity   time.Time     `json:"last_activity,omitempty"`
	MessagesPerSec float64       `json:"messages_per_second,omitempty"`
}

// IsHealthy returns true if the status is healthy
func (s Status) IsHealthy() bool { return s.Status == StateHealthy }

// IsDegraded returns true if the status is degraded
func (s Status) IsDegraded() bool { return s.Status == StateDegraded }

// IsUnhealthy returns true if the status is unhealthy
func (s Status) IsUnhealthy() bool { return s.Status == StateUnhealthy }

// sanitizeErrorMessage masks URLs, paths, addresses, ports and credentials.
func sanitizeErrorMessage(msg string) string {
	if msg == "" {
		return ""
	}

	// URLs before paths, a URL contains a path
	sanitized := urlRegex.ReplaceAllString(msg, "[URL]")
	sanitized = unixPathRegex.ReplaceAllString(sanitized, "[PATH]")
	sanitized = ipAddrRegex.ReplaceAllString(sanitized, "[IP]")
	sanitized = portRegex.ReplaceAllString(sanitized, "[PORT]")

	lower := strings.ToLower(sanitized)
	for _, word := range []string{"password", "token", "key", "secret", "credential"} {
		if strings.Contains(lower, word) {
			sanitized = credentialRegex.ReplaceAllString(sanitized, "[REDACTED]")
			break
		}
	}
	return sanitized
}

// DegradedErrorRate is the share of failed records above which a running
// component is reported degraded.
const DegradedErrorRate = 0.5

// FromComponent converts the health and data flow of a component into a
// Status.
func FromComponent(name string, comp component.Discoverable) Status {
	ch := comp.Health()
	flow := comp.DataFlow()

	status := StateUnhealthy
	message := "Component unhealthy"
	switch {
	case ch.Healthy && flow.ErrorRate > DegradedErrorRate:
		status = StateDegraded
		message = "Component failing most records"
	case ch.Healthy:
		status = StateHealthy
		message = "Component healthy"
	}
	if ch.LastError != "" {
		message = sanitizeErrorMessage(ch.LastError)
	}

	return Status{
		Component: name,
		Healthy:   status == StateHealthy,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
		Metrics: &Metrics{
			Uptime:         ch.Uptime,
			ErrorCount:     ch.ErrorCount,
			ErrorRate:      flow.ErrorRate,
			LastActivity:   flow.LastActivity,
			MessagesPerSec: flow.MessagesPerSecond,
		},
	}
}
