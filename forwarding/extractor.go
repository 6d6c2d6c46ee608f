package forwarding

import (
	"github.com/c360/semfwd/matching"
	"github.com/c360/semfwd/record"
)

// KeyExtractor computes the routing key of a record received on input.
type KeyExtractor interface {
	Extract(input string, rec record.Record) (string, error)
}

// ByInputName uses the input channel name as the key.
type ByInputName struct{}

// Extract returns input unchanged.
func (ByInputName) Extract(input string, _ record.Record) (string, error) {
	return input, nil
}

// ByInputValue renders a designated field of the record as the key. The
// field for each input comes from a table of input patterns.
type ByInputValue struct {
	members *matching.Table
	cache   *FieldCache
}

// NewByInputValue returns an extractor over the given members table.
// A nil cache gets a fresh one.
func NewByInputValue(members *matching.Table, cache *FieldCache) *ByInputValue {
	if cache == nil {
		cache = NewFieldCache()
	}
	return &ByInputValue{members: members, cache: cache}
}

// Cache exposes the descriptor cache.
func (b *ByInputValue) Cache() *FieldCache { return b.cache }

// Members exposes the input members table.
func (b *ByInputValue) Members() *matching.Table { return b.members }

// Extract renders the value of the field configured for input.
func (b *ByInputValue) Extract(input string, rec record.Record) (string, error) {
	entry, err := b.members.Find(input)
	if err != nil {
		return "", err
	}
	field := entry.Destination

	desc, ok := b.cache.Get(input, field)
	if !ok {
		created, err := describe(field, rec)
		if err != nil {
			return "", err
		}
		desc = b.cache.GetOrInsert(input, field, created)
	}

	kind, value, err := record.Lookup(rec, field)
	if err != nil {
		return "", err
	}
	if kind != desc.Kind {
		return "", &KindMismatchError{Input: input, Field: field, Cached: desc.Kind, Actual: kind}
	}
	return desc.Render(value)
}
