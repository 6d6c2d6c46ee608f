package componentregistry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfwd/component"
	"github.com/c360/semfwd/errors"
)

func TestRegister(t *testing.T) {
	registry := component.NewRegistry()
	require.NoError(t, Register(registry))

	assert.Equal(t, []string{"forward"}, registry.ListComponentTypes())

	schema, err := registry.GetComponentSchema("forward")
	require.NoError(t, err)
	assert.Contains(t, schema.Properties, "properties")
}

func TestRegister_NilRegistry(t *testing.T) {
	err := Register(nil)
	assert.True(t, errors.IsFatal(err))
}
