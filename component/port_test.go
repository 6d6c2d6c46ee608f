package component

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPort_JSONRoundTrip(t *testing.T) {
	ports := []Port{
		{Name: "in", Direction: DirectionInput, Required: true, Config: NATSPort{Subject: "records.in"}},
		{Name: "out", Direction: DirectionOutput, Config: JetStreamPort{StreamName: "OUT", Subjects: []string{"records.out"}}},
		{Name: "bare", Direction: DirectionOutput},
	}

	for _, port := range ports {
		t.Run(port.Name, func(t *testing.T) {
			data, err := json.Marshal(port)
			require.NoError(t, err)

			var decoded Port
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, port, decoded)
		})
	}
}

func TestPort_UnmarshalUnknownType(t *testing.T) {
	var p Port
	err := json.Unmarshal([]byte(`{"name":"x","config":{"type":"carrier-pigeon","data":{}}}`), &p)
	assert.ErrorContains(t, err, "carrier-pigeon")
}

func TestPortConfig_Build(t *testing.T) {
	pc := PortConfig{
		Inputs: []PortDefinition{
			{Name: "connection", Subject: "cfg.connection"},
			{Name: "feed", Type: PortTypeJetStream, Subject: "feed.in", StreamName: "FEED"},
		},
		Outputs: []PortDefinition{{Name: "session", Subject: "cfg.session"}},
	}
	require.NoError(t, pc.Validate())

	inputs := pc.InputPorts()
	require.Len(t, inputs, 2)
	assert.Equal(t, DirectionInput, inputs[0].Direction)
	assert.Equal(t, NATSPort{Subject: "cfg.connection"}, inputs[0].Config)
	assert.Equal(t, "cfg.connection", inputs[0].Subject())
	assert.Equal(t, JetStreamPort{StreamName: "FEED", Subjects: []string{"feed.in"}}, inputs[1].Config)
	assert.Equal(t, "feed.in", inputs[1].Subject())
	assert.Equal(t, "jetstream:FEED", inputs[1].Config.ResourceID())

	outputs := pc.OutputPorts()
	require.Len(t, outputs, 1)
	assert.Equal(t, DirectionOutput, outputs[0].Direction)
	assert.Equal(t, "nats:cfg.session", outputs[0].Config.ResourceID())
}

func TestPortConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		pc   PortConfig
		want string
	}{
		{"missing name", PortConfig{Inputs: []PortDefinition{{Subject: "a"}}}, "has no name"},
		{"missing subject", PortConfig{Outputs: []PortDefinition{{Name: "a"}}}, "has no subject"},
		{"unknown type", PortConfig{Inputs: []PortDefinition{{Name: "a", Subject: "a", Type: "kv"}}}, "unknown type"},
		{"duplicate", PortConfig{Inputs: []PortDefinition{{Name: "a", Subject: "a"}, {Name: "a", Subject: "b"}}}, "duplicate input port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, tt.pc.Validate(), tt.want)
		})
	}

	same := PortConfig{
		Inputs:  []PortDefinition{{Name: "a", Subject: "in"}},
		Outputs: []PortDefinition{{Name: "a", Subject: "out"}},
	}
	assert.NoError(t, same.Validate(), "input and output may share a name")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "created", StateCreated.String())
	assert.Equal(t, "started", StateStarted.String())
	assert.Equal(t, "unknown", State(42).String())
}
