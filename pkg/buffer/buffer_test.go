package buffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfwd/errors"
)

func TestBuffer_FIFO(t *testing.T) {
	b := NewCircularBuffer[int](4)
	for i := 1; i <= 3; i++ {
		require.NoError(t, b.Write(i))
	}
	assert.Equal(t, 3, b.Size())
	assert.Equal(t, []int{1, 2}, b.ReadBatch(2))
	assert.Equal(t, []int{3}, b.Drain())
	assert.Nil(t, b.Drain())
	assert.Nil(t, b.ReadBatch(0))
}

func TestBuffer_DropOldest(t *testing.T) {
	var dropped []int
	b := NewCircularBuffer[int](3, WithDropCallback(func(i int) { dropped = append(dropped, i) }))

	for i := 1; i <= 5; i++ {
		require.NoError(t, b.Write(i))
	}
	assert.Equal(t, []int{3, 4, 5}, b.Drain())
	assert.Equal(t, []int{1, 2}, dropped)
	assert.Equal(t, int64(2), b.Stats().Drops())
	assert.Equal(t, int64(5), b.Stats().Writes())
	assert.Equal(t, int64(3), b.Stats().MaxSize())
}

func TestBuffer_DropNewest(t *testing.T) {
	var dropped []int
	b := NewCircularBuffer[int](2,
		WithOverflowPolicy[int](DropNewest),
		WithDropCallback(func(i int) { dropped = append(dropped, i) }))

	for i := 1; i <= 4; i++ {
		require.NoError(t, b.Write(i))
	}
	assert.Equal(t, []int{1, 2}, b.Drain())
	assert.Equal(t, []int{3, 4}, dropped)
}

func TestBuffer_WrapAround(t *testing.T) {
	b := NewCircularBuffer[int](3)
	require.NoError(t, b.Write(1))
	require.NoError(t, b.Write(2))
	assert.Equal(t, []int{1}, b.ReadBatch(1))
	require.NoError(t, b.Write(3))
	require.NoError(t, b.Write(4))
	assert.Equal(t, []int{2, 3, 4}, b.Drain())
}

func TestBuffer_Close(t *testing.T) {
	b := NewCircularBuffer[string](2)
	require.NoError(t, b.Write("a"))
	require.NoError(t, b.Close())

	err := b.Write("b")
	assert.ErrorIs(t, err, errors.ErrShuttingDown)
	assert.Equal(t, []string{"a"}, b.Drain(), "buffered items survive close")
}

func TestBuffer_MinimumCapacity(t *testing.T) {
	b := NewCircularBuffer[int](0)
	assert.Equal(t, 1, b.Capacity())
}

func TestBuffer_ConcurrentWriters(t *testing.T) {
	b := NewCircularBuffer[int](1000)
	var wg sync.WaitGroup
	for w := 0; w < 10; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = b.Write(i)
			}
		}()
	}
	wg.Wait()
	assert.Len(t, b.Drain(), 1000)
	assert.Equal(t, int64(0), b.Stats().Drops())
}

func TestParseOverflowPolicy(t *testing.T) {
	p, err := ParseOverflowPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DropOldest, p)

	p, err = ParseOverflowPolicy("drop_newest")
	require.NoError(t, err)
	assert.Equal(t, DropNewest, p)

	_, err = ParseOverflowPolicy("block")
	assert.Error(t, err)
	assert.Equal(t, "drop_oldest", DropOldest.String())
}
