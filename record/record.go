// Package record defines self-describing records and the type metadata used
// to resolve member paths inside them.
//
// A Record exposes its Type and per-member kind and value lookups. Two
// implementations are provided: Dynamic, a typed record populated by
// producers that know their schema, and JSON, a record decoded from a JSON
// object whose member kinds are inferred per instance.
//
// Value types by kind:
//
//	KindBool     bool
//	KindUint8    uint8      KindInt16    int16
//	KindUint16   uint16     KindInt32    int32
//	KindUint32   uint32     KindInt64    int64
//	KindUint64   uint64     KindFloat32  float32
//	KindChar     rune       KindFloat64  float64
//	KindString   string     KindStruct   Record
//	KindSequence []any      KindNull     nil
package record

import (
	"fmt"

	"github.com/c360/semfwd/errors"
)

// Record is a structurally typed value handed to the forwarding engine.
// Records are borrowed for one forwarding operation and never retained.
type Record interface {
	Type() Type
	MemberExists(name string) bool
	MemberKind(name string) (Kind, error)
	Value(name string) (any, error)
}

// Dynamic is a record bound to a StructType whose member values are set individually.
// Declared but unset members do not exist on the instance.
type Dynamic struct {
	typ    *StructType
	values map[string]any
}

// New returns an empty record of the given type.
func New(t *StructType) *Dynamic {
	return &Dynamic{typ: t, values: make(map[string]any)}
}

// Set assigns a member value. The member must be declared and the value must
// carry the Go type for the declared kind.
func (d *Dynamic) Set(name string, value any) error {
	mt, ok := d.typ.Member(name)
	if !ok {
		return &MemberNotFoundError{Path: name, Segment: name}
	}
	if !Conforms(mt.Kind(), value) {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s expects %s, got %T", errors.ErrInvalidData, name, mt.Kind(), value),
			"Dynamic", "Set", "assign member")
	}
	d.values[name] = value
	return nil
}

// MustSet is Set for statically known values; it panics on error.
func (d *Dynamic) MustSet(name string, value any) *Dynamic {
	if err := d.Set(name, value); err != nil {
		panic(err)
	}
	return d
}

// Type returns the struct type the record was created with.
func (d *Dynamic) Type() Type { return d.typ }

func (d *Dynamic) MemberExists(name string) bool {
	_, ok := d.values[name]
	return ok
}

func (d *Dynamic) MemberKind(name string) (Kind, error) {
	if !d.MemberExists(name) {
		return KindInvalid, &MemberNotFoundError{Path: name, Segment: name}
	}
	mt, _ := d.typ.Member(name)
	return mt.Kind(), nil
}

func (d *Dynamic) Value(name string) (any, error) {
	v, ok := d.values[name]
	if !ok {
		return nil, &MemberNotFoundError{Path: name, Segment: name}
	}
	return v, nil
}

// Conforms reports whether v carries the Go type used for values of kind k.
func Conforms(k Kind, v any) bool {
	switch k {
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindUint8:
		_, ok := v.(uint8)
		return ok
	case KindUint16:
		_, ok := v.(uint16)
		return ok
	case KindUint32:
		_, ok := v.(uint32)
		return ok
	case KindUint64:
		_, ok := v.(uint64)
		return ok
	case KindChar, KindInt32:
		_, ok := v.(int32)
		return ok
	case KindInt16:
		_, ok := v.(int16)
		return ok
	case KindInt64:
		_, ok := v.(int64)
		return ok
	case KindFloat32:
		_, ok := v.(float32)
		return ok
	case KindFloat64:
		_, ok := v.(float64)
		return ok
	case KindString:
		_, ok := v.(string)
		return ok
	case KindStruct:
		_, ok := v.(Record)
		return ok
	case KindSequence:
		_, ok := v.([]any)
		return ok
	case KindNull:
		return v == nil
	default:
		return false
	}
}
