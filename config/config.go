package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/c360/semfwd/component"
	"github.com/c360/semfwd/pkg/security"
)

// ComponentConfigs holds component instance configurations.
// The map key is the instance name (e.g., "router-main").
// Components are only created if their factory is registered and their
// entry has enabled=true.
type ComponentConfigs map[string]component.Config

// Config represents the complete service configuration
type Config struct {
	Version    string           `json:"version,omitempty"` // Semantic version (e.g., "1.0.0")
	NATS       NATSConfig       `json:"nats"`
	Metrics    MetricsConfig    `json:"metrics"`
	Components ComponentConfigs `json:"components,omitempty"`
}

// NATSConfig defines NATS connection settings
type NATSConfig struct {
	URLs          []string      `json:"urls,omitempty"`
	MaxReconnects int           `json:"max_reconnects"`
	ReconnectWait time.Duration `json:"reconnect_wait"`
	Username      string        `json:"username,omitempty"`
	Password      string        `json:"password,omitempty"`
	Token         string        `json:"token,omitempty"`
	Name          string        `json:"name,omitempty"`

	TLS security.ClientTLSConfig `json:"tls"`
}

// MetricsConfig defines the Prometheus metrics server
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Port    int    `json:"port"`
	Path    string `json:"path"`
}

// Defaults returns the configuration every document is merged over.
func Defaults() *Config {
	return &Config{
		NATS: NATSConfig{
			URLs:          []string{"nats://localhost:4222"},
			MaxReconnects: -1,
			ReconnectWait: 2 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// UnmarshalJSON accepts reconnect_wait as a duration string ("2s") or as
// integer nanoseconds.
func (n *NATSConfig) UnmarshalJSON(data []byte) error {
	type alias NATSConfig
	aux := struct {
		ReconnectWait any `json:"reconnect_wait"`
		*alias
	}{
		alias: (*alias)(n),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch v := aux.ReconnectWait.(type) {
	case nil:
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("nats.reconnect_wait: %w", err)
		}
		n.ReconnectWait = d
	case float64:
		n.ReconnectWait = time.Duration(v)
	default:
		return fmt.Errorf("nats.reconnect_wait: unsupported value %v", v)
	}
	return nil
}

// MarshalJSON renders reconnect_wait as a duration string.
func (n NATSConfig) MarshalJSON() ([]byte, error) {
	type alias NATSConfig
	return json.Marshal(struct {
		alias
		ReconnectWait string `json:"reconnect_wait"`
	}{
		alias:         alias(n),
		ReconnectWait: n.ReconnectWait.String(),
	})
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if c.Version != "" {
		if _, _, _, err := parseSemVer(c.Version); err != nil {
			return fmt.Errorf("version: %w", err)
		}
	}

	if len(c.NATS.URLs) == 0 {
		return errors.New("nats.urls must list at least one server")
	}
	for i, url := range c.NATS.URLs {
		if strings.TrimSpace(url) == "" {
			return fmt.Errorf("nats.urls[%d] is empty", i)
		}
	}
	if c.NATS.MaxReconnects < -1 {
		return fmt.Errorf("nats.max_reconnects must be -1 (unlimited) or greater, got %d", c.NATS.MaxReconnects)
	}
	if c.NATS.ReconnectWait < 0 {
		return fmt.Errorf("nats.reconnect_wait must not be negative, got %v", c.NATS.ReconnectWait)
	}
	if err := c.NATS.TLS.Validate(); err != nil {
		return fmt.Errorf("nats.tls: %w", err)
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port %d outside valid range 1-65535", c.Metrics.Port)
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path)
		}
	}

	for instanceName, cc := range c.Components {
		if err := component.ValidateComponentName(instanceName); err != nil {
			return fmt.Errorf("component %q: %w", instanceName, err)
		}
		if err := cc.Validate(); err != nil {
			return fmt.Errorf("component %s: %w", instanceName, err)
		}
	}

	return nil
}

// EnabledComponents returns the names of enabled component instances in
// sorted order, which is also the order they are started in.
func (c *Config) EnabledComponents() []string {
	var names []string
	for _, name := range slices.Sorted(maps.Keys(c.Components)) {
		if c.Components[name].Enabled {
			names = append(names, name)
		}
	}
	return names
}

// String returns a JSON representation of the config with secrets masked
func (c *Config) String() string {
	masked := *c
	if masked.NATS.Password != "" {
		masked.NATS.Password = "****"
	}
	if masked.NATS.Token != "" {
		masked.NATS.Token = "****"
	}
	data, _ := json.MarshalIndent(&masked, "", "  ")
	return string(data)
}

// parseSemVer parses a semantic version string (e.g., "1.2.3")
func parseSemVer(version string) (int, int, int, error) {
	if version == "" {
		return 0, 0, 0, errors.New("version cannot be empty")
	}

	version = strings.TrimPrefix(version, "v")

	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("version must be in format 'major.minor.patch', got '%s'", version)
	}

	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, 0, 0, fmt.Errorf("invalid version component '%s'", part)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}
