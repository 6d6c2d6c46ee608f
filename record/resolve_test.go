package record

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfwd/errors"
)

func sensorType() *StructType {
	header := NewStructType("Header",
		Field{Name: "source", Type: TypeOf(KindString)},
		Field{Name: "seq", Type: TypeOf(KindUint32)},
	)
	return NewStructType("Reading",
		Field{Name: "id", Type: TypeOf(KindInt32)},
		Field{Name: "header", Type: header},
		Field{Name: "samples", Type: TypeOf(KindSequence)},
	)
}

func TestResolve(t *testing.T) {
	root := sensorType()

	tests := []struct {
		name    string
		path    string
		kind    Kind
		segment string
		prefix  string
	}{
		{name: "direct member", path: "id", kind: KindInt32},
		{name: "nested member", path: "header.source", kind: KindString},
		{name: "container leaf", path: "header", kind: KindStruct},
		{name: "missing direct", path: "missing", segment: "missing", prefix: ""},
		{name: "missing nested", path: "header.nope", segment: "nope", prefix: "header"},
		{name: "descend into scalar", path: "id.value", segment: "value", prefix: "id"},
		{name: "deep miss", path: "header.source.x.y", segment: "x", prefix: "header.source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := Resolve(root, tt.path)
			if tt.segment == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.kind, typ.Kind())
				return
			}

			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrMemberNotFound))

			var mnf *MemberNotFoundError
			require.ErrorAs(t, err, &mnf)
			assert.Equal(t, tt.path, mnf.Path)
			assert.Equal(t, tt.segment, mnf.Segment)
			assert.Equal(t, tt.prefix, mnf.Prefix)
		})
	}
}

func TestResolve_NilRoot(t *testing.T) {
	_, err := Resolve(nil, "id")
	assert.ErrorIs(t, err, errors.ErrMemberNotFound)
}

func TestLookup(t *testing.T) {
	root := sensorType()
	headerType, _ := root.Member("header")

	header := New(headerType.(*StructType)).MustSet("source", "plant-7")
	rec := New(root).MustSet("id", int32(42)).MustSet("header", Record(header))

	kind, value, err := Lookup(rec, "header.source")
	require.NoError(t, err)
	assert.Equal(t, KindString, kind)
	assert.Equal(t, "plant-7", value)

	kind, value, err = Lookup(rec, "id")
	require.NoError(t, err)
	assert.Equal(t, KindInt32, kind)
	assert.Equal(t, int32(42), value)

	_, _, err = Lookup(rec, "header.seq")
	var mnf *MemberNotFoundError
	require.ErrorAs(t, err, &mnf)
	assert.Equal(t, "seq", mnf.Segment)
	assert.Equal(t, "header", mnf.Prefix)

	_, _, err = Lookup(rec, "id.value")
	require.ErrorAs(t, err, &mnf)
	assert.Equal(t, "value", mnf.Segment)
	assert.Equal(t, "id", mnf.Prefix)
}

func TestMemberNotFoundError_Message(t *testing.T) {
	err := &MemberNotFoundError{Path: "station", Segment: "station"}
	assert.Equal(t, `input member not found in sample: station (no member "station" at top level)`, err.Error())

	err = &MemberNotFoundError{Path: "a.b", Segment: "a"}
	assert.Equal(t, `input member not found in sample: a.b (no member "a" at top level)`, err.Error())

	err = &MemberNotFoundError{Path: "a.b", Segment: "b", Prefix: "a"}
	assert.Contains(t, err.Error(), `no member "b" under "a"`)
}
