// Package sched provides cancellable timers driven by the caller's loop.
//
// A Queue never starts goroutines: timers fire only inside Advance, on the
// goroutine that calls it. Frame loops advance the queue once per frame so
// timer callbacks are serialized with input handling, and tests advance it
// by hand instead of waiting on a wall clock.
package sched

import (
	"container/heap"
	"time"
)

// Scheduler schedules callbacks relative to its own clock.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time
	// After runs fn once, d after Now.
	After(d time.Duration, fn func()) Timer
	// Every runs fn every d, starting d after Now.
	Every(d time.Duration, fn func()) Timer
}

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the timer was still pending.
	// A stopped timer never fires again, even if it was already due.
	Stop() bool
}

// Queue is a Scheduler whose time only moves when Advance is called.
type Queue struct {
	now     time.Time
	seq     uint64
	pending entryHeap
}

// Compile-time check that Queue implements Scheduler.
var _ Scheduler = (*Queue)(nil)

// NewQueue creates a queue whose clock starts at start.
func NewQueue(start time.Time) *Queue {
	return &Queue{now: start}
}

// Now returns the queue's current time.
func (q *Queue) Now() time.Time {
	return q.now
}

// After schedules fn to run once, d after Now.
func (q *Queue) After(d time.Duration, fn func()) Timer {
	return q.push(d, 0, fn)
}

// Every schedules fn to run repeatedly with period d.
// Non-positive periods are treated as one nanosecond so Advance always terminates.
func (q *Queue) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		d = time.Nanosecond
	}
	return q.push(d, d, fn)
}

// Len returns the number of timers still pending.
func (q *Queue) Len() int {
	n := 0
	for _, e := range q.pending {
		if !e.stopped {
			n++
		}
	}
	return n
}

// Advance moves the clock to now and fires every timer due at or before it,
// in due order (ties fire in scheduling order). While a callback runs, Now
// reports that timer's due time, so timers scheduled from inside a callback
// keep their phase. Returns the number of callbacks fired.
// A now earlier than the current time only fires nothing.
func (q *Queue) Advance(now time.Time) int {
	fired := 0
	for len(q.pending) > 0 {
		next := q.pending[0]
		if next.stopped {
			heap.Pop(&q.pending)
			continue
		}
		if next.due.After(now) {
			break
		}
		heap.Pop(&q.pending)
		if next.due.After(q.now) {
			q.now = next.due
		}
		if next.period > 0 {
			next.due = next.due.Add(next.period)
			next.seq = q.nextSeq()
			heap.Push(&q.pending, next)
		} else {
			next.stopped = true
		}
		next.fn()
		fired++
	}
	if now.After(q.now) {
		q.now = now
	}
	return fired
}

// AdvanceBy advances the clock by d. See Advance.
func (q *Queue) AdvanceBy(d time.Duration) int {
	return q.Advance(q.now.Add(d))
}

func (q *Queue) push(d, period time.Duration, fn func()) *entry {
	if d < 0 {
		d = 0
	}
	e := &entry{
		due:    q.now.Add(d),
		period: period,
		seq:    q.nextSeq(),
		fn:     fn,
	}
	heap.Push(&q.pending, e)
	return e
}

func (q *Queue) nextSeq() uint64 {
	q.seq++
	return q.seq
}

// entry is a pending callback. Stopped entries stay in the heap until they
// reach the top and are discarded.
type entry struct {
	due     time.Time
	period  time.Duration
	seq     uint64
	fn      func()
	stopped bool
	index   int
}

// Stop cancels the entry.
func (e *entry) Stop() bool {
	if e.stopped {
		return false
	}
	e.stopped = true
	return true
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
