package forward

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/c360/semfwd/component"
	"github.com/c360/semfwd/errors"
	"github.com/c360/semfwd/forwarding"
	"github.com/c360/semfwd/pkg/buffer"
)

const (
	// DefaultInboxCapacity bounds each input's inbox when no capacity is configured.
	DefaultInboxCapacity = 1024
	// DefaultFailureLogRate is the number of per-record failure warnings logged per second.
	DefaultFailureLogRate = 10
)

// Config holds configuration for the forward processor
type Config struct {
	// Name labels logs and metrics for this instance.
	Name string `json:"name"`
	// Ports declares the named inputs and outputs. Port names are the
	// channel names used by forwarding tables.
	Ports *component.PortConfig `json:"ports"`
	// Strategy selects the key extractor.
	Strategy string `json:"strategy"`
	// Properties maps property names to table text. A value may be a JSON
	// string holding the table or the table itself inline.
	Properties map[string]json.RawMessage `json:"properties"`
	// InboxCapacity bounds the samples buffered per input between cycles.
	InboxCapacity int `json:"inbox_capacity"`
	// OverflowPolicy is drop_oldest or drop_newest.
	OverflowPolicy string `json:"overflow_policy"`
	// FailureLogRate caps per-record failure warnings per second. 0 logs every failure.
	FailureLogRate float64 `json:"failure_log_rate"`
}

// DefaultConfig returns the default configuration for the forward processor
func DefaultConfig() Config {
	return Config{
		Name:           "forward",
		Strategy:       string(forwarding.StrategyByInputName),
		Properties:     map[string]json.RawMessage{},
		InboxCapacity:  DefaultInboxCapacity,
		OverflowPolicy: buffer.DropOldest.String(),
		FailureLogRate: DefaultFailureLogRate,
	}
}

// ParseConfig decodes raw over DefaultConfig and validates the result.
func ParseConfig(raw json.RawMessage) (Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return Config{}, errors.WrapInvalid(err, "ForwardProcessor", "ParseConfig", "config unmarshal")
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration without parsing the forwarding tables.
func (c Config) Validate() error {
	if err := component.ValidateComponentName(c.Name); err != nil {
		return errors.Wrap(err, "ForwardProcessor", "Validate", "name validation")
	}
	if c.Ports == nil || len(c.Ports.Inputs) == 0 {
		return errors.WrapInvalid(errors.ErrMissingConfig, "ForwardProcessor", "Validate",
			"at least one input port is required")
	}
	if len(c.Ports.Outputs) == 0 {
		return errors.WrapInvalid(errors.ErrMissingConfig, "ForwardProcessor", "Validate",
			"at least one output port is required")
	}
	if err := c.Ports.Validate(); err != nil {
		return errors.Wrap(err, "ForwardProcessor", "Validate", "port validation")
	}
	for _, def := range append(append([]component.PortDefinition(nil), c.Ports.Inputs...), c.Ports.Outputs...) {
		if def.Type == component.PortTypeJetStream && def.StreamName == "" {
			return errors.WrapInvalid(
				fmt.Errorf("jetstream port %q has no stream_name", def.Name),
				"ForwardProcessor", "Validate", "stream name validation")
		}
	}
	if _, err := forwarding.ParseStrategy(c.Strategy); err != nil {
		return errors.WrapFatal(err, "ForwardProcessor", "Validate", "strategy validation")
	}
	if c.InboxCapacity <= 0 {
		return errors.WrapInvalid(
			fmt.Errorf("inbox_capacity must be positive, got %d", c.InboxCapacity),
			"ForwardProcessor", "Validate", "inbox capacity validation")
	}
	if c.FailureLogRate < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("failure_log_rate must not be negative, got %v", c.FailureLogRate),
			"ForwardProcessor", "Validate", "failure log rate validation")
	}
	if _, err := buffer.ParseOverflowPolicy(c.OverflowPolicy); err != nil {
		return errors.Wrap(err, "ForwardProcessor", "Validate", "overflow policy validation")
	}
	return nil
}

// ForwardingProperties converts the configured properties to engine
// properties. JSON string values are unquoted; any other JSON value is
// passed through as text and left for the table parser to judge.
func (c Config) ForwardingProperties() (forwarding.Properties, error) {
	props := make(forwarding.Properties, len(c.Properties))
	for name, raw := range c.Properties {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '"' {
			var text string
			if err := json.Unmarshal(trimmed, &text); err != nil {
				return nil, errors.WrapFatal(
					&forwarding.ConfigError{Property: name, Reason: err.Error()},
					"ForwardProcessor", "ForwardingProperties", "property decoding")
			}
			props[name] = text
			continue
		}
		props[name] = string(trimmed)
	}
	return props, nil
}
