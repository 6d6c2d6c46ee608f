package record

// Kind identifies the primitive or container category of a member.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindChar
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
	KindStruct
	KindSequence
	KindNull
)

var kindNames = map[Kind]string{
	KindInvalid:  "invalid",
	KindBool:     "bool",
	KindUint8:    "uint8",
	KindUint16:   "uint16",
	KindUint32:   "uint32",
	KindUint64:   "uint64",
	KindChar:     "char",
	KindInt16:    "int16",
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindFloat32:  "float32",
	KindFloat64:  "float64",
	KindString:   "string",
	KindStruct:   "struct",
	KindSequence: "sequence",
	KindNull:     "null",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsPrimitive reports whether values of this kind are scalars that can be rendered as text.
func (k Kind) IsPrimitive() bool {
	return k >= KindBool && k <= KindString
}
