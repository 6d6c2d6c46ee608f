package record

// Type is the metadata of a record or of one of its members.
type Type interface {
	Kind() Kind
	Name() string
	// Member returns the type of a direct member. Non-struct types have no members.
	Member(name string) (Type, bool)
	// Members lists direct member names in declaration order.
	Members() []string
}

type scalarType Kind

// TypeOf returns the member-less Type for a kind.
func TypeOf(k Kind) Type {
	return scalarType(k)
}

func (s scalarType) Kind() Kind { return Kind(s) }
func (s scalarType) Name() string { return Kind(s).String() }
func (s scalarType) Member(string) (Type, bool) { return nil, false }
func (s scalarType) Members() []string { return nil }

// Field is one named member of a StructType.
type Field struct {
	Name string
	Type Type
}

// StructType is an ordered collection of named members.
type StructType struct {
	name   string
	fields []Field
	index  map[string]int
}

// NewStructType builds a struct type. A repeated field name replaces the earlier declaration.
func NewStructType(name string, fields ...Field) *StructType {
	st := &StructType{name: name, index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if i, ok := st.index[f.Name]; ok {
			st.fields[i] = f
			continue
		}
		st.index[f.Name] = len(st.fields)
		st.fields = append(st.fields, f)
	}
	return st
}

func (st *StructType) Kind() Kind   { return KindStruct }
func (st *StructType) Name() string { return st.name }

func (st *StructType) Member(name string) (Type, bool) {
	i, ok := st.index[name]
	if !ok {
		return nil, false
	}
	return st.fields[i].Type, true
}

func (st *StructType) Members() []string {
	names := make([]string, len(st.fields))
	for i, f := range st.fields {
		names[i] = f.Name
	}
	return names
}
