package component

import (
	"encoding/json"
	"fmt"

	"github.com/c360/semfwd/errors"
)

// Direction for data flow
type Direction string

// Direction constants for port data flow
const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Port types understood by BuildPortFromDefinition
const (
	PortTypeNATS      = "nats"
	PortTypeJetStream = "jetstream"
)

// Port describes a named input or output of a component.
// For the forwarder the port name is the input or output name used by
// forwarding tables.
type Port struct {
	Name        string    `json:"name"`
	Direction   Direction `json:"direction"`
	Required    bool      `json:"required"`
	Description string    `json:"description"`
	Config      Portable  `json:"config"`
}

// Portable is the transport binding of a port
type Portable interface {
	ResourceID() string // Unique identifier for conflict detection
	IsExclusive() bool  // Whether multiple components can share
	Type() string       // Port type identifier
}

// Subject returns the NATS subject a port is bound to, or "" when the port
// has no subject binding.
func (p Port) Subject() string {
	switch cfg := p.Config.(type) {
	case NATSPort:
		return cfg.Subject
	case JetStreamPort:
		if len(cfg.Subjects) > 0 {
			return cfg.Subjects[0]
		}
	}
	return ""
}

// MarshalJSON wraps the Portable config with its type so it can be rebuilt
func (p Port) MarshalJSON() ([]byte, error) {
	type portAlias Port

	wrapper := struct {
		portAlias
		Config json.RawMessage `json:"config"`
	}{
		portAlias: (portAlias)(p),
	}

	if p.Config != nil {
		configWithType := struct {
			Type string `json:"type"`
			Data any    `json:"data"`
		}{
			Type: p.Config.Type(),
			Data: p.Config,
		}

		configBytes, err := json.Marshal(configWithType)
		if err != nil {
			return nil, errors.Wrap(err, "Port", "MarshalJSON", "config marshaling")
		}
		wrapper.Config = configBytes
	}

	return json.Marshal(wrapper)
}

// UnmarshalJSON reconstructs the Portable config from its type tag
func (p *Port) UnmarshalJSON(data []byte) error {
	type portAlias Port

	temp := struct {
		*portAlias
		Config json.RawMessage `json:"config"`
	}{
		portAlias: (*portAlias)(p),
	}

	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}

	if len(temp.Config) == 0 || string(temp.Config) == "null" {
		p.Config = nil
		return nil
	}

	var configWrapper struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(temp.Config, &configWrapper); err != nil {
		return errors.Wrap(err, "Port", "UnmarshalJSON", "config wrapper unmarshaling")
	}

	switch configWrapper.Type {
	case PortTypeNATS:
		var natsConfig NATSPort
		if err := json.Unmarshal(configWrapper.Data, &natsConfig); err != nil {
			return errors.Wrap(err, "Port", "UnmarshalJSON", "nats config unmarshaling")
		}
		p.Config = natsConfig
	case PortTypeJetStream:
		var jsConfig JetStreamPort
		if err := json.Unmarshal(configWrapper.Data, &jsConfig); err != nil {
			return errors.Wrap(err, "Port", "UnmarshalJSON", "jetstream config unmarshaling")
		}
		p.Config = jsConfig
	default:
		return errors.WrapInvalid(
			fmt.Errorf("unknown port config type %q", configWrapper.Type),
			"Port", "UnmarshalJSON", "config type dispatch")
	}

	return nil
}

// NATSPort - NATS pub/sub
type NATSPort struct {
	Subject string `json:"subject"`
	Queue   string `json:"queue,omitempty"`
}

// ResourceID returns unique identifier for NATS ports
func (n NATSPort) ResourceID() string {
	return fmt.Sprintf("nats:%s", n.Subject)
}

// IsExclusive returns false as multiple components can subscribe
func (n NATSPort) IsExclusive() bool {
	return false
}

// Type returns the port type identifier
func (n NATSPort) Type() string {
	return PortTypeNATS
}

// JetStreamPort - NATS JetStream for durable, at-least-once delivery
type JetStreamPort struct {
	StreamName string   `json:"stream_name"`
	Subjects   []string `json:"subjects"`
}

// ResourceID returns unique identifier for JetStream ports
func (j JetStreamPort) ResourceID() string {
	if j.StreamName != "" {
		return fmt.Sprintf("jetstream:%s", j.StreamName)
	}
	if len(j.Subjects) > 0 {
		return fmt.Sprintf("jetstream:%s", j.Subjects[0])
	}
	return "jetstream:unknown"
}

// IsExclusive returns false as JetStream manages consumer coordination
func (j JetStreamPort) IsExclusive() bool {
	return false
}

// Type returns the port type identifier
func (j JetStreamPort) Type() string {
	return PortTypeJetStream
}

// PortDefinition represents a port configuration from JSON
type PortDefinition struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
	StreamName  string `json:"stream_name,omitempty"`
}

// PortConfig represents port configuration in component config
type PortConfig struct {
	Inputs  []PortDefinition `json:"inputs,omitempty"`
	Outputs []PortDefinition `json:"outputs,omitempty"`
}

// Validate checks every definition has a name and a subject and that names
// are unique within each direction.
func (pc PortConfig) Validate() error {
	for _, group := range []struct {
		direction Direction
		defs      []PortDefinition
	}{
		{DirectionInput, pc.Inputs},
		{DirectionOutput, pc.Outputs},
	} {
		seen := make(map[string]struct{}, len(group.defs))
		for i, def := range group.defs {
			if def.Name == "" {
				return errors.WrapInvalid(
					fmt.Errorf("%s port %d has no name", group.direction, i),
					"PortConfig", "Validate", "port name check")
			}
			if def.Subject == "" {
				return errors.WrapInvalid(
					fmt.Errorf("%s port %q has no subject", group.direction, def.Name),
					"PortConfig", "Validate", "port subject check")
			}
			switch def.Type {
			case "", PortTypeNATS, PortTypeJetStream:
			default:
				return errors.WrapInvalid(
					fmt.Errorf("%s port %q has unknown type %q", group.direction, def.Name, def.Type),
					"PortConfig", "Validate", "port type check")
			}
			if _, dup := seen[def.Name]; dup {
				return errors.WrapInvalid(
					fmt.Errorf("duplicate %s port %q", group.direction, def.Name),
					"PortConfig", "Validate", "port uniqueness check")
			}
			seen[def.Name] = struct{}{}
		}
	}
	return nil
}

// InputPorts builds the input ports in declaration order
func (pc PortConfig) InputPorts() []Port {
	return buildPorts(pc.Inputs, DirectionInput)
}

// OutputPorts builds the output ports in declaration order
func (pc PortConfig) OutputPorts() []Port {
	return buildPorts(pc.Outputs, DirectionOutput)
}

func buildPorts(defs []PortDefinition, direction Direction) []Port {
	ports := make([]Port, 0, len(defs))
	for _, def := range defs {
		ports = append(ports, BuildPortFromDefinition(def, direction))
	}
	return ports
}

// BuildPortFromDefinition creates a Port from a PortDefinition
func BuildPortFromDefinition(def PortDefinition, direction Direction) Port {
	port := Port{
		Name:        def.Name,
		Direction:   direction,
		Required:    def.Required,
		Description: def.Description,
	}

	switch def.Type {
	case PortTypeJetStream:
		port.Config = JetStreamPort{
			StreamName: def.StreamName,
			Subjects:   []string{def.Subject},
		}
	default:
		port.Config = NATSPort{
			Subject: def.Subject,
		}
	}

	return port
}
