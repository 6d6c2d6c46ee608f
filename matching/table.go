// Package matching holds ordered pattern tables used to route keys to destinations.
package matching

import (
	"fmt"

	"github.com/c360/semfwd/errors"
)

// Entry binds a wildcard pattern to a destination name.
type Entry struct {
	Pattern     string `json:"pattern"`
	Destination string `json:"destination"`
}

// NoMatchError is returned by Find when no pattern matches the key.
type NoMatchError struct {
	Key string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no entry found for key: %s", e.Key)
}

func (e *NoMatchError) Unwrap() error { return errors.ErrNoMatchFound }

// Table is an ordered list of entries with unique patterns. It is built once
// and then only read, so it is not safe for concurrent Add.
type Table struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// Add inserts pattern at the end of the table, or replaces the destination of
// the entry whose pattern is exactly equal to it. The returned flag is true
// when a new entry was appended.
func (t *Table) Add(pattern, destination string) (Entry, bool) {
	if i, ok := t.index[pattern]; ok {
		t.entries[i].Destination = destination
		return t.entries[i], false
	}
	e := Entry{Pattern: pattern, Destination: destination}
	t.index[pattern] = len(t.entries)
	t.entries = append(t.entries, e)
	return e, true
}

// Find returns the first entry, in insertion order, whose pattern matches key.
func (t *Table) Find(key string) (Entry, error) {
	for _, e := range t.entries {
		if Match(e.Pattern, key) {
			return e, nil
		}
	}
	return Entry{}, &NoMatchError{Key: key}
}

// Entries returns a copy of the entries in insertion order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }
