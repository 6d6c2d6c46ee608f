package config

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfwd/component"
	"github.com/c360/semfwd/pkg/security"
)

func validConfig() *Config {
	cfg := Defaults()
	cfg.Version = "1.0.0"
	cfg.Components = ComponentConfigs{
		"router": {Type: component.TypeProcessor, Name: "forward", Enabled: true},
		"spare":  {Type: component.TypeProcessor, Name: "forward"},
		"alpha":  {Type: component.TypeProcessor, Name: "forward", Enabled: true},
	}
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad version", func(c *Config) { c.Version = "1.0" }, "version"},
		{"no urls", func(c *Config) { c.NATS.URLs = nil }, "nats.urls"},
		{"blank url", func(c *Config) { c.NATS.URLs = []string{" "} }, "nats.urls[0] is empty"},
		{"reconnects", func(c *Config) { c.NATS.MaxReconnects = -2 }, "max_reconnects"},
		{"negative wait", func(c *Config) { c.NATS.ReconnectWait = -time.Second }, "reconnect_wait"},
		{"tls key without cert", func(c *Config) {
			c.NATS.TLS = security.ClientTLSConfig{Enabled: true, KeyFile: "client.key"}
		}, "nats.tls"},
		{"metrics port", func(c *Config) { c.Metrics.Port = 70000 }, "metrics.port"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
		{"component name", func(c *Config) {
			c.Components["bad name"] = component.Config{Type: component.TypeProcessor, Name: "forward"}
		}, "bad name"},
		{"component type", func(c *Config) {
			c.Components["router"] = component.Config{Type: "gateway", Name: "forward"}
		}, "component router"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	disabled := validConfig()
	disabled.Metrics = MetricsConfig{Enabled: false}
	assert.NoError(t, disabled.Validate(), "metrics settings are not checked when disabled")
}

func TestConfig_EnabledComponents(t *testing.T) {
	assert.Equal(t, []string{"alpha", "router"}, validConfig().EnabledComponents())
	assert.Empty(t, Defaults().EnabledComponents())
}

func TestNATSConfig_ReconnectWait(t *testing.T) {
	var n NATSConfig
	require.NoError(t, json.Unmarshal([]byte(`{"urls":["nats://a"],"reconnect_wait":"1500ms"}`), &n))
	assert.Equal(t, 1500*time.Millisecond, n.ReconnectWait)
	assert.Equal(t, []string{"nats://a"}, n.URLs)

	require.NoError(t, json.Unmarshal([]byte(`{"reconnect_wait":2000000000}`), &n))
	assert.Equal(t, 2*time.Second, n.ReconnectWait)

	assert.Error(t, json.Unmarshal([]byte(`{"reconnect_wait":"soon"}`), &n))
	assert.Error(t, json.Unmarshal([]byte(`{"reconnect_wait":true}`), &n))

	data, err := json.Marshal(NATSConfig{ReconnectWait: 3 * time.Second})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"reconnect_wait":"3s"`)
}

func TestConfig_StringMasksSecrets(t *testing.T) {
	cfg := Defaults()
	cfg.NATS.Password = "hunter2"
	cfg.NATS.Token = "s3cret"

	out := cfg.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "s3cret")
	assert.Equal(t, 2, strings.Count(out, "****"))
	assert.Equal(t, "hunter2", cfg.NATS.Password, "masking must not modify the config")
}

func TestParseSemVer(t *testing.T) {
	major, minor, patch, err := parseSemVer("v2.10.3")
	require.NoError(t, err)
	assert.Equal(t, [3]int{2, 10, 3}, [3]int{major, minor, patch})

	for _, bad := range []string{"", "1", "1.2", "1.2.x", "1.-2.3"} {
		_, _, _, err := parseSemVer(bad)
		assert.Error(t, err, bad)
	}
}
