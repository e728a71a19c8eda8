// Package queue implements the MWMR event queue spec.md §4.7 (C7)
// describes: a bounded ring buffer of (data, aux) pairs used to ferry
// records between operator threads, deliberately built on sync.Mutex plus
// sync.Cond rather than a Go channel so push_blocking's attempt-capped
// back-pressure contract — "wait up to 1000 attempts, then fail" — can be
// expressed directly; an unbuffered or buffered channel send either blocks
// forever or fails immediately, with no portable way to bound the wait by
// attempt count instead of by time.
package queue

import (
	"sync"
	"time"

	wserrors "github.com/iamNilotpal/tupleflow/pkg/errors"
)

// Item is one queue slot: a record payload plus an auxiliary tag, mirroring
// original_source's two-pointer wsqueue slot.
type Item struct {
	Data any
	Aux  any
}

// Queue is a bounded, FIFO, multi-writer multi-reader ring buffer.
// Ordering is FIFO within one Queue; no ordering is promised across queues
// (spec.md §4.7).
type Queue struct {
	mu         sync.Mutex
	notEmpty   *sync.Cond
	notFull    *sync.Cond
	items      []Item
	head       int
	count      int
	cap        int
	attemptCap int
}

// Config configures a new Queue.
type Config struct {
	// Capacity is the number of slots; spec.md §4.7's default is 16.
	Capacity int

	// AttemptCap bounds how many times push_blocking re-checks the
	// not-full condition before giving up; spec.md §4.7's default is 1000.
	AttemptCap int
}

// New constructs a Queue per config.
func New(config Config) (*Queue, error) {
	if config.Capacity <= 0 {
		return nil, wserrors.NewFieldRangeError("Capacity", config.Capacity, 1, nil)
	}
	if config.AttemptCap <= 0 {
		return nil, wserrors.NewFieldRangeError("AttemptCap", config.AttemptCap, 1, nil)
	}

	q := &Queue{items: make([]Item, config.Capacity), cap: config.Capacity, attemptCap: config.AttemptCap}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q, nil
}

// Push attempts a nonblocking enqueue. It returns false immediately if the
// queue is full.
func (q *Queue) Push(data, aux any) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == q.cap {
		return false
	}
	q.pushLocked(data, aux)
	return true
}

// PushBlocking waits on the not-full condition until room appears, bounded
// by the queue's configured attempt cap; spec.md §4.7: "bounded by an
// attempt limit (1000) after which it returns failure to allow
// back-pressure." Each wake-up spends one attempt: a Pop wakes the waiter,
// and so does a millisecond passing without one.
func (q *Queue) PushBlocking(data, aux any) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	attempts := 0
	for q.count == q.cap {
		if attempts >= q.attemptCap {
			return wserrors.NewQueueFullError(q.cap, attempts)
		}
		attempts++
		wake := time.AfterFunc(time.Millisecond, func() {
			q.mu.Lock()
			q.notFull.Signal()
			q.mu.Unlock()
		})
		q.notFull.Wait()
		wake.Stop()
	}
	q.pushLocked(data, aux)
	return nil
}

// Pop attempts a nonblocking dequeue. It returns (Item{}, false)
// immediately if the queue is empty.
func (q *Queue) Pop() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		return Item{}, false
	}
	return q.popLocked(), true
}

// PopBlocking waits on the has-data condition until an item is available.
// Unlike PushBlocking, spec.md §4.7 gives pop_blocking no attempt cap — a
// consumer is expected to wait indefinitely for work.
func (q *Queue) PopBlocking() Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.count == 0 {
		q.notEmpty.Wait()
	}
	return q.popLocked()
}

func (q *Queue) pushLocked(data, aux any) {
	tail := (q.head + q.count) % q.cap
	q.items[tail] = Item{Data: data, Aux: aux}
	q.count++
	q.notEmpty.Broadcast()
}

func (q *Queue) popLocked() Item {
	it := q.items[q.head]
	q.items[q.head] = Item{}
	q.head = (q.head + 1) % q.cap
	q.count--
	q.notFull.Broadcast()
	return it
}

// Len returns a snapshot of the queue's current occupancy.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Capacity returns the queue's configured slot count.
func (q *Queue) Capacity() int {
	return q.cap
}
