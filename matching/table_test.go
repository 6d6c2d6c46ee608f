package matching

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfwd/errors"
)

func TestTable_AddUniquePatterns(t *testing.T) {
	table := New()

	e, added := table.Add("Sensor*", "out-a")
	assert.True(t, added)
	assert.Equal(t, Entry{Pattern: "Sensor*", Destination: "out-a"}, e)

	_, added = table.Add("Pump?", "out-b")
	assert.True(t, added)

	e, added = table.Add("Sensor*", "out-c")
	assert.False(t, added, "same pattern replaces instead of appending")
	assert.Equal(t, "out-c", e.Destination)

	want := []Entry{
		{Pattern: "Sensor*", Destination: "out-c"},
		{Pattern: "Pump?", Destination: "out-b"},
	}
	if diff := cmp.Diff(want, table.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, table.Len())
}

func TestTable_AddUsesExactPatternEquality(t *testing.T) {
	table := New()
	table.Add("*", "catch-all")

	// "Sensor1" matches "*" as a wildcard but is not the same pattern.
	_, added := table.Add("Sensor1", "sensor")
	assert.True(t, added)
	assert.Equal(t, 2, table.Len())
}

func TestTable_FindFirstMatchWins(t *testing.T) {
	table := New()
	table.Add("Sensor*", "A")
	table.Add("Sensor1", "B")

	e, err := table.Find("Sensor1")
	require.NoError(t, err)
	assert.Equal(t, "A", e.Destination)
	assert.Equal(t, "Sensor*", e.Pattern)
}

func TestTable_FindSingleCharWildcard(t *testing.T) {
	table := New()
	table.Add("Sensor?", "X")

	e, err := table.Find("Sensor1")
	require.NoError(t, err)
	assert.Equal(t, "X", e.Destination)

	_, err = table.Find("Sensor")
	assert.ErrorIs(t, err, errors.ErrNoMatchFound)

	_, err = table.Find("Sensor12")
	assert.ErrorIs(t, err, errors.ErrNoMatchFound)
}

func TestTable_FindNoMatch(t *testing.T) {
	table := New()
	table.Add("A", "x")

	_, err := table.Find("B")
	require.Error(t, err)

	var nm *NoMatchError
	require.ErrorAs(t, err, &nm)
	assert.Equal(t, "B", nm.Key)
	assert.Equal(t, "no entry found for key: B", err.Error())

	_, err = New().Find("anything")
	assert.ErrorIs(t, err, errors.ErrNoMatchFound)
}

func TestTable_EntriesIsACopy(t *testing.T) {
	table := New()
	table.Add("a", "b")

	entries := table.Entries()
	entries[0].Destination = "mutated"

	e, err := table.Find("a")
	require.NoError(t, err)
	assert.Equal(t, "b", e.Destination)
}
