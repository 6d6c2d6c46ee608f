// Package buffer provides a generic, bounded, thread-safe FIFO used as the
// inbox between message handlers and the goroutine that drains them.
package buffer

import (
	"sync"
	"sync/atomic"

	"github.com/c360/semfwd/errors"
)

// OverflowPolicy defines how the buffer behaves when it reaches capacity.
type OverflowPolicy int

const (
	// DropOldest removes the oldest item to make room for new items.
	DropOldest OverflowPolicy = iota
	// DropNewest drops new items when the buffer is full.
	DropNewest
)

// String returns a human-readable representation of the overflow policy.
func (p OverflowPolicy) String() string {
	switch p {
	case DropOldest:
		return "drop_oldest"
	case DropNewest:
		return "drop_newest"
	default:
		return "unknown"
	}
}

// ParseOverflowPolicy maps a configuration string to a policy. Empty means DropOldest.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "", "drop_oldest":
		return DropOldest, nil
	case "drop_newest":
		return DropNewest, nil
	default:
		return DropOldest, errors.WrapInvalid(errors.ErrInvalidConfig, "buffer", "ParseOverflowPolicy",
			"unknown overflow policy "+s)
	}
}

// DropCallback is called, outside the buffer lock, with every item lost to overflow.
type DropCallback[T any] func(item T)

// Statistics counts buffer operations.
type Statistics struct {
	writes  atomic.Int64
	reads   atomic.Int64
	drops   atomic.Int64
	maxSize atomic.Int64
}

func (s *Statistics) Writes() int64 { return s.writes.Load() }
func (s *Statistics) Reads() int64 { return s.reads.Load() }
func (s *Statistics) Drops() int64 { return s.drops.Load() }
func (s *Statistics) MaxSize() int64 { return s.maxSize.Load() }

func (s *Statistics) observeSize(n int) {
	for {
		current := s.maxSize.Load()
		if int64(n) <= current || s.maxSize.CompareAndSwap(current, int64(n)) {
			return
		}
	}
}

// Buffer is a fixed-capacity ring of T.
type Buffer[T any] struct {
	mu     sync.Mutex
	items  []T
	head   int
	size   int
	closed bool

	policy OverflowPolicy
	onDrop DropCallback[T]
	stats  Statistics
}

// Option configures a Buffer.
type Option[T any] func(*Buffer[T])

// WithOverflowPolicy sets the overflow behavior. Defaults to DropOldest.
func WithOverflowPolicy[T any](policy OverflowPolicy) Option[T] {
	return func(b *Buffer[T]) {
		b.policy = policy
	}
}

// WithDropCallback registers a callback for dropped items.
func WithDropCallback[T any](callback DropCallback[T]) Option[T] {
	return func(b *Buffer[T]) {
		b.onDrop = callback
	}
}

// NewCircularBuffer creates a buffer holding at most capacity items (minimum 1).
func NewCircularBuffer[T any](capacity int, options ...Option[T]) *Buffer[T] {
	if capacity <= 0 {
		capacity = 1
	}
	b := &Buffer[T]{items: make([]T, capacity)}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Write appends item, applying the overflow policy when the buffer is full.
func (b *Buffer[T]) Write(item T) error {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return errors.WrapInvalid(errors.ErrShuttingDown, "Buffer", "Write", "buffer closed")
	}

	var dropped T
	didDrop := false
	if b.size == len(b.items) {
		switch b.policy {
		case DropNewest:
			b.stats.drops.Add(1)
			b.mu.Unlock()
			if b.onDrop != nil {
				b.onDrop(item)
			}
			return nil
		default:
			dropped = b.items[b.head]
			didDrop = true
			b.head = (b.head + 1) % len(b.items)
			b.size--
			b.stats.drops.Add(1)
		}
	}

	b.items[(b.head+b.size)%len(b.items)] = item
	b.size++
	b.stats.writes.Add(1)
	b.stats.observeSize(b.size)
	b.mu.Unlock()

	if didDrop && b.onDrop != nil {
		b.onDrop(dropped)
	}
	return nil
}

// ReadBatch removes and returns up to max items in FIFO order.
func (b *Buffer[T]) ReadBatch(max int) []T {
	if max <= 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	n := min(max, b.size)
	if n == 0 {
		return nil
	}

	var zero T
	out := make([]T, n)
	for i := range out {
		out[i] = b.items[b.head]
		b.items[b.head] = zero
		b.head = (b.head + 1) % len(b.items)
	}
	b.size -= n
	b.stats.reads.Add(int64(n))
	return out
}

// Drain removes and returns every buffered item.
func (b *Buffer[T]) Drain() []T {
	return b.ReadBatch(len(b.items))
}

// Size returns the current number of items.
func (b *Buffer[T]) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Capacity returns the maximum number of items.
func (b *Buffer[T]) Capacity() int { return len(b.items) }

// Stats returns the buffer's counters.
func (b *Buffer[T]) Stats() *Statistics { return &b.stats }

// Close rejects further writes. Buffered items can still be read.
func (b *Buffer[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
