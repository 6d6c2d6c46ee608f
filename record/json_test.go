package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfwd/errors"
)

func TestFromJSON_KindInference(t *testing.T) {
	payload := []byte(`{
		"ok": true,
		"count": 12,
		"big": 18446744073709551615,
		"ratio": 0.25,
		"name": "Sensor1",
		"header": {"source": "plant-7"},
		"values": [1, 2],
		"missing": null
	}`)

	rec, err := FromJSON(payload)
	require.NoError(t, err)

	expected := map[string]Kind{
		"ok":      KindBool,
		"count":   KindInt64,
		"big":     KindUint64,
		"ratio":   KindFloat64,
		"name":    KindString,
		"header":  KindStruct,
		"values":  KindSequence,
		"missing": KindNull,
	}
	for name, kind := range expected {
		got, err := rec.MemberKind(name)
		require.NoError(t, err, name)
		assert.Equal(t, kind, got, name)
	}

	v, err := rec.Value("count")
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)

	v, err = rec.Value("big")
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), v)

	assert.Equal(t, []string{"big", "count", "header", "missing", "name", "ok", "ratio", "values"},
		rec.Type().Members())

	typ, err := Resolve(rec.Type(), "header.source")
	require.NoError(t, err)
	assert.Equal(t, KindString, typ.Kind())

	kind, value, err := Lookup(rec, "header.source")
	require.NoError(t, err)
	assert.Equal(t, KindString, kind)
	assert.Equal(t, "plant-7", value)
}

func TestFromJSON_Rejects(t *testing.T) {
	for _, payload := range []string{`not json`, `[1,2]`, `null`, `"text"`} {
		t.Run(payload, func(t *testing.T) {
			_, err := FromJSON([]byte(payload))
			require.Error(t, err)
			assert.True(t, errors.IsInvalid(err))
		})
	}
}

func TestEncode(t *testing.T) {
	payload := []byte(`{"name":"Sensor1", "x": 1}`)
	rec, err := FromJSON(payload)
	require.NoError(t, err)

	out, err := Encode(rec)
	require.NoError(t, err)
	assert.Equal(t, payload, out, "decoded records are forwarded byte for byte")

	typ := NewStructType("Reading",
		Field{Name: "id", Type: TypeOf(KindUint16)},
		Field{Name: "grade", Type: TypeOf(KindChar)},
		Field{Name: "unset", Type: TypeOf(KindString)},
	)
	dyn := New(typ).MustSet("id", uint16(7)).MustSet("grade", 'B')

	out, err = Encode(dyn)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, map[string]any{"id": float64(7), "grade": "B"}, decoded)
}
