package forwarding

import (
	"fmt"
	"strings"
	"sync"

	"github.com/c360/semfwd/record"
)

// FieldDescriptor records how a key field of one input is rendered. It is
// created the first time the field is seen on that input and never changes.
// Name is the member path as configured, dotted for nested members.
type FieldDescriptor struct {
	Name   string
	Kind   record.Kind
	Format string
}

var defaultFormats = map[record.Kind]string{
	record.KindBool:    "%d",
	record.KindUint8:   "%d",
	record.KindUint16:  "%d",
	record.KindUint32:  "%d",
	record.KindUint64:  "%d",
	record.KindChar:    "%c",
	record.KindInt16:   "%d",
	record.KindInt32:   "%d",
	record.KindInt64:   "%d",
	record.KindFloat32: "%f",
	record.KindFloat64: "%f",
	record.KindString:  "%s",
}

// DefaultFormat returns the format verb used to render values of a kind.
func DefaultFormat(kind record.Kind) (string, bool) {
	f, ok := defaultFormats[kind]
	return f, ok
}

// Render formats a value of the descriptor's kind. Booleans render as 0 or 1.
func (d *FieldDescriptor) Render(value any) (string, error) {
	if !record.Conforms(d.Kind, value) {
		return "", fmt.Errorf("%w: %s holds %T", &UnsupportedKindError{Field: d.Name, Kind: d.Kind}, d.Name, value)
	}
	if b, ok := value.(bool); ok {
		n := 0
		if b {
			n = 1
		}
		return fmt.Sprintf(d.Format, n), nil
	}
	return fmt.Sprintf(d.Format, value), nil
}

// describe inspects a record to build the descriptor for field. Plain names
// use the record's own member lookup; dotted paths are resolved through its type.
func describe(field string, rec record.Record) (*FieldDescriptor, error) {
	var kind record.Kind
	if !strings.Contains(field, record.PathSeparator) {
		k, err := rec.MemberKind(field)
		if err != nil {
			return nil, err
		}
		kind = k
	} else {
		typ, err := record.Resolve(rec.Type(), field)
		if err != nil {
			return nil, err
		}
		kind = typ.Kind()
	}

	format, ok := DefaultFormat(kind)
	if !ok {
		return nil, &UnsupportedKindError{Field: field, Kind: kind}
	}
	return &FieldDescriptor{Name: field, Kind: kind, Format: format}, nil
}

// FieldCache maps input name and field name to a descriptor. Entries are
// only ever added.
type FieldCache struct {
	mu     sync.RWMutex
	fields map[string]map[string]*FieldDescriptor
}

// NewFieldCache returns an empty cache.
func NewFieldCache() *FieldCache {
	return &FieldCache{fields: make(map[string]map[string]*FieldDescriptor)}
}

// Get returns the descriptor cached for the field on input.
func (c *FieldCache) Get(input, field string) (*FieldDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.fields[input][field]
	return d, ok
}

// GetOrInsert stores d unless a descriptor already exists for the field on
// input, and returns the stored descriptor.
func (c *FieldCache) GetOrInsert(input, field string, d *FieldDescriptor) *FieldDescriptor {
	c.mu.Lock()
	defer c.mu.Unlock()

	byField, ok := c.fields[input]
	if !ok {
		byField = make(map[string]*FieldDescriptor)
		c.fields[input] = byField
	}
	if existing, ok := byField[field]; ok {
		return existing
	}
	byField[field] = d
	return d
}

// Len returns the total number of cached descriptors.
func (c *FieldCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, byField := range c.fields {
		n += len(byField)
	}
	return n
}
