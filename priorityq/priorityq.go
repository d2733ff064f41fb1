// Package priorityq implements a bounded blocking priority queue.
package priorityq

import (
	"container/heap"
	"context"
	"errors"
	"sync"
)

var (
	// ErrClosed is returned by Push on a closed queue and by Pop on a closed and drained queue.
	ErrClosed = errors.New("priorityq: closed")
	// ErrFull is returned by TryPush when the queue is at capacity.
	ErrFull = errors.New("priorityq: full")
)

// LessFunc reports whether a must be popped before b.
type LessFunc[T any] func(a, b T) bool

// FIFO is a LessFunc that keeps insertion order.
func FIFO[T any](T, T) bool { return false }

type entry[T any] struct {
	value T
	seq   uint64
}

type entries[T any] struct {
	items []entry[T]
	less  LessFunc[T]
}

func (e *entries[T]) Len() int { return len(e.items) }

func (e *entries[T]) Less(i, j int) bool {
	a, b := e.items[i], e.items[j]
	if e.less(a.value, b.value) {
		return true
	}
	if e.less(b.value, a.value) {
		return false
	}
	return a.seq < b.seq
}

func (e *entries[T]) Swap(i, j int) { e.items[i], e.items[j] = e.items[j], e.items[i] }

func (e *entries[T]) Push(x any) { e.items = append(e.items, x.(entry[T])) }

func (e *entries[T]) Pop() any {
	old := e.items
	n := len(old)
	item := old[n-1]
	var empty entry[T]
	old[n-1] = empty
	e.items = old[:n-1]
	return item
}

// Queue is a bounded priority queue. Items that compare equal are popped in insertion order.
// Pop blocks while the queue is empty and Push blocks while it is full.
// After Close the remaining items can still be popped.
type Queue[T any] struct {
	mu       sync.Mutex
	entries  entries[T]
	capacity int
	seq      uint64
	closed   bool
	// changed is closed and replaced every time the queue is modified.
	changed chan struct{}
}

// New creates a queue holding at most capacity items.
func New[T any](capacity int, less LessFunc[T]) *Queue[T] {
	if capacity <= 0 {
		panic("priorityq: capacity must be positive")
	}
	return &Queue[T]{
		entries:  entries[T]{less: less},
		capacity: capacity,
		changed:  make(chan struct{}),
	}
}

func (q *Queue[T]) broadcast() {
	close(q.changed)
	q.changed = make(chan struct{})
}

func (q *Queue[T]) push(item T) {
	heap.Push(&q.entries, entry[T]{value: item, seq: q.seq})
	q.seq++
	q.broadcast()
}

// Push adds an item, waiting for free space or ctx to be done.
func (q *Queue[T]) Push(ctx context.Context, item T) error {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return ErrClosed
		}
		if q.entries.Len() < q.capacity {
			q.push(item)
			q.mu.Unlock()
			return nil
		}
		changed := q.changed
		q.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// TryPush adds an item if there is free space, and returns ErrFull otherwise.
func (q *Queue[T]) TryPush(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	if q.entries.Len() >= q.capacity {
		return ErrFull
	}
	q.push(item)
	return nil
}

// Pop removes the item with the highest priority, waiting for one to be available.
// ErrClosed is returned once the queue is closed and empty.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		if q.entries.Len() > 0 {
			item := heap.Pop(&q.entries).(entry[T])
			q.broadcast()
			q.mu.Unlock()
			return item.value, nil
		}
		if q.closed {
			q.mu.Unlock()
			var empty T
			return empty, ErrClosed
		}
		changed := q.changed
		q.mu.Unlock()
		select {
		case <-ctx.Done():
			var empty T
			return empty, ctx.Err()
		case <-changed:
		}
	}
}

// Close stops accepting new items. It is safe to call Close more than once.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.broadcast()
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.entries.Len()
}
