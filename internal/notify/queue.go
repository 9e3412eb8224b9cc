package notify

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrQueueFull is returned when a bounded queue cannot accept more work.
	ErrQueueFull = errors.New("notification queue full")
	// ErrQueueClosed is returned after Close, and by Dequeue once a closed queue is drained.
	ErrQueueClosed = errors.New("notification queue closed")
)

// Queue buffers notifications between the creation path and the worker.
type Queue interface {
	Enqueue(ctx context.Context, n Notification) error
	Dequeue(ctx context.Context) (Notification, error)
	Close() error
}

// MemoryQueue is a bounded in-process queue.
type MemoryQueue struct {
	mu     sync.RWMutex
	items  chan Notification
	closed bool
}

// NewMemoryQueue creates a queue holding at most size pending items.
func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 1
	}
	return &MemoryQueue{items: make(chan Notification, size)}
}

// Enqueue never blocks; a full queue drops the item with ErrQueueFull.
func (q *MemoryQueue) Enqueue(_ context.Context, n Notification) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.items <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue waits for the next item.
func (q *MemoryQueue) Dequeue(ctx context.Context) (Notification, error) {
	select {
	case n, ok := <-q.items:
		if !ok {
			return Notification{}, ErrQueueClosed
		}
		return n, nil
	case <-ctx.Done():
		return Notification{}, ctx.Err()
	}
}

// Close stops new enqueues; pending items remain available to Dequeue.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.items)
	}
	return nil
}
