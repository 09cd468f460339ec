package mnrt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue() (*readyQueue, *sync.Mutex) {
	var mu sync.Mutex
	return newReadyQueue(&mu), &mu
}

func TestReadyQueueFIFOOrder(t *testing.T) {
	q, mu := newTestQueue()
	mu.Lock()
	defer mu.Unlock()

	a := &Task{id: 1}
	b := &Task{id: 2}
	c := &Task{id: 3}

	q.PushLocked(a)
	q.PushLocked(b)
	q.PushLocked(c)

	require.Equal(t, 3, q.SizeLocked())
	assert.Equal(t, a, q.PopLocked())
	assert.Equal(t, b, q.PopLocked())
	assert.Equal(t, c, q.PopLocked())
	assert.True(t, q.EmptyLocked())
	assert.Nil(t, q.PopLocked())
}

func TestReadyQueueLockingVariants(t *testing.T) {
	q, _ := newTestQueue()

	q.Push(&Task{id: 1})
	q.Push(&Task{id: 2})

	first := q.Pop()
	require.NotNil(t, first)
	assert.Equal(t, uint64(1), first.id)

	assert.Equal(t, 1, q.Size())
	assert.False(t, q.Empty())

	second := q.Pop()
	require.NotNil(t, second)
	assert.Equal(t, uint64(2), second.id)

	assert.Nil(t, q.Pop())
	assert.True(t, q.Empty())
}

func TestReadyQueueInterleavedPushPop(t *testing.T) {
	q, mu := newTestQueue()
	mu.Lock()
	defer mu.Unlock()

	q.PushLocked(&Task{id: 1})
	q.PushLocked(&Task{id: 2})
	assert.Equal(t, uint64(1), q.PopLocked().id)
	q.PushLocked(&Task{id: 3})
	assert.Equal(t, uint64(2), q.PopLocked().id)
	assert.Equal(t, uint64(3), q.PopLocked().id)
	assert.True(t, q.EmptyLocked())
}
