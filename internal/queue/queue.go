package queue

import (
	"sync"
)

// Queue is a generic thread-safe FIFO. A queue with a limit drops its oldest
// items when a push would exceed it.
type Queue[T any] struct {
	mu      sync.Mutex
	items   []T
	limit   int
	dropped int
}

// New creates a new empty, unbounded queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0),
	}
}

// NewBounded creates a queue holding at most limit items.
func NewBounded[T any](limit int) *Queue[T] {
	q := New[T]()
	if limit > 0 {
		q.limit = limit
	}
	return q
}

// Push appends items to the queue and returns how many old items were dropped
// to make room.
func (q *Queue[T]) Push(items ...T) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
	if q.limit == 0 || len(q.items) <= q.limit {
		return 0
	}
	n := len(q.items) - q.limit
	clear(q.items[:n])
	q.items = q.items[n:]
	q.dropped += n
	return n
}

// Pop removes and returns the first item.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true
}

// Empty returns true if the queue has no items.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped returns the total number of items discarded by the limit.
func (q *Queue[T]) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Drain returns all items and empties the queue.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	result := q.items
	q.items = make([]T, 0, len(result))
	return result
}
