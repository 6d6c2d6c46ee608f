package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/c360/semfwd/errors"
)

// JSON is a record decoded from a JSON object. Member kinds are inferred from
// the decoded values of this instance:
//
//	true/false                bool
//	integral number           int64, or uint64 above math.MaxInt64
//	other number              float64
//	string                    string
//	object                    struct (nested *JSON)
//	array                     sequence
//	null                      null
//
// Members of the synthesized Type are listed in lexical order.
type JSON struct {
	raw    []byte
	kinds  map[string]Kind
	values map[string]any
	typ    *StructType
}

// FromJSON decodes a JSON object into a record. The original bytes are kept
// so the record can be forwarded unchanged.
func FromJSON(data []byte) (*JSON, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrParsingFailed, err),
			"record", "FromJSON", "decode object")
	}
	if obj == nil {
		return nil, errors.WrapInvalid(fmt.Errorf("%w: payload is not a JSON object", errors.ErrInvalidData),
			"record", "FromJSON", "decode object")
	}

	rec := fromObject("", obj)
	rec.raw = data
	return rec, nil
}

func fromObject(name string, obj map[string]any) *JSON {
	rec := &JSON{
		kinds:  make(map[string]Kind, len(obj)),
		values: make(map[string]any, len(obj)),
	}

	names := make([]string, 0, len(obj))
	for k := range obj {
		names = append(names, k)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, k := range names {
		kind, value, typ := convert(k, obj[k])
		rec.kinds[k] = kind
		rec.values[k] = value
		fields = append(fields, Field{Name: k, Type: typ})
	}
	rec.typ = NewStructType(name, fields...)
	return rec
}

func convert(name string, v any) (Kind, any, Type) {
	switch val := v.(type) {
	case nil:
		return KindNull, nil, TypeOf(KindNull)
	case bool:
		return KindBool, val, TypeOf(KindBool)
	case string:
		return KindString, val, TypeOf(KindString)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return KindInt64, i, TypeOf(KindInt64)
		}
		if u, err := strconv.ParseUint(val.String(), 10, 64); err == nil && u > math.MaxInt64 {
			return KindUint64, u, TypeOf(KindUint64)
		}
		f, _ := val.Float64()
		return KindFloat64, f, TypeOf(KindFloat64)
	case map[string]any:
		nested := fromObject(name, val)
		return KindStruct, nested, nested.typ
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			_, items[i], _ = convert(name, item)
		}
		return KindSequence, items, TypeOf(KindSequence)
	default:
		return KindInvalid, val, TypeOf(KindInvalid)
	}
}

// Bytes returns the payload the record was decoded from. Nested records return nil.
func (j *JSON) Bytes() []byte { return j.raw }

func (j *JSON) Type() Type { return j.typ }

func (j *JSON) MemberExists(name string) bool {
	_, ok := j.kinds[name]
	return ok
}

func (j *JSON) MemberKind(name string) (Kind, error) {
	k, ok := j.kinds[name]
	if !ok {
		return KindInvalid, &MemberNotFoundError{Path: name, Segment: name}
	}
	return k, nil
}

func (j *JSON) Value(name string) (any, error) {
	if !j.MemberExists(name) {
		return nil, &MemberNotFoundError{Path: name, Segment: name}
	}
	return j.values[name], nil
}

type rawRecord interface {
	Bytes() []byte
}

// Encode returns the wire form of a record: the original bytes when the
// record was decoded from JSON, otherwise a JSON object built from its members.
func Encode(rec Record) ([]byte, error) {
	if r, ok := rec.(rawRecord); ok && r.Bytes() != nil {
		return r.Bytes(), nil
	}
	data, err := json.Marshal(toMap(rec))
	if err != nil {
		return nil, errors.WrapInvalid(err, "record", "Encode", "marshal record")
	}
	return data, nil
}

func toMap(rec Record) map[string]any {
	out := make(map[string]any)
	for _, name := range rec.Type().Members() {
		if !rec.MemberExists(name) {
			continue
		}
		v, err := rec.Value(name)
		if err != nil {
			continue
		}
		out[name] = toJSONValue(rec, name, v)
	}
	return out
}

func toJSONValue(rec Record, name string, v any) any {
	switch val := v.(type) {
	case Record:
		return toMap(val)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = toJSONValue(rec, name, item)
		}
		return items
	case int32:
		if k, _ := rec.MemberKind(name); k == KindChar {
			return string(val)
		}
		return val
	default:
		return val
	}
}
