package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfwd/errors"
)

func TestDynamic_Set(t *testing.T) {
	typ := NewStructType("Sample",
		Field{Name: "flag", Type: TypeOf(KindBool)},
		Field{Name: "grade", Type: TypeOf(KindChar)},
		Field{Name: "level", Type: TypeOf(KindFloat32)},
	)
	rec := New(typ)

	require.NoError(t, rec.Set("flag", true))
	require.NoError(t, rec.Set("grade", 'A'))
	assert.Error(t, rec.Set("level", 1.5), "float64 is not a float32")
	assert.ErrorIs(t, rec.Set("other", 1), errors.ErrMemberNotFound)

	assert.True(t, rec.MemberExists("flag"))
	assert.False(t, rec.MemberExists("level"), "declared but unset")

	kind, err := rec.MemberKind("grade")
	require.NoError(t, err)
	assert.Equal(t, KindChar, kind)

	_, err = rec.MemberKind("level")
	assert.ErrorIs(t, err, errors.ErrMemberNotFound)

	_, err = rec.Value("level")
	assert.ErrorIs(t, err, errors.ErrMemberNotFound)
}

func TestStructType_RepeatedField(t *testing.T) {
	typ := NewStructType("T",
		Field{Name: "a", Type: TypeOf(KindInt16)},
		Field{Name: "b", Type: TypeOf(KindString)},
		Field{Name: "a", Type: TypeOf(KindUint8)},
	)
	assert.Equal(t, []string{"a", "b"}, typ.Members())
	mt, ok := typ.Member("a")
	require.True(t, ok)
	assert.Equal(t, KindUint8, mt.Kind())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "uint16", KindUint16.String())
	assert.Equal(t, "sequence", KindSequence.String())
	assert.Equal(t, "unknown", Kind(99).String())
	assert.True(t, KindString.IsPrimitive())
	assert.True(t, KindBool.IsPrimitive())
	assert.False(t, KindStruct.IsPrimitive())
	assert.False(t, KindNull.IsPrimitive())
}
