package session

import (
	"sync/atomic"
	"time"
)

// DefaultQueueCapacity bounds the output queue when none is configured.
const DefaultQueueCapacity = 4096

// Line is one line of subprocess output.
type Line struct {
	Seq  uint64    `json:"seq"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// OutputQueue is a bounded FIFO between the session's reader goroutine (the
// only producer) and the controller (the only consumer). When full, the
// oldest line is dropped to make room.
type OutputQueue struct {
	ch      chan Line
	seq     atomic.Uint64
	dropped atomic.Uint64
}

// NewOutputQueue returns a queue holding at most capacity lines.
func NewOutputQueue(capacity int) *OutputQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &OutputQueue{ch: make(chan Line, capacity)}
}

// push enqueues text, evicting the oldest line if the queue is full.
func (q *OutputQueue) push(text string) {
	l := Line{Seq: q.seq.Add(1), Text: text, Time: time.Now()}
	outputLinesTotal.Inc()
	for {
		select {
		case q.ch <- l:
			return
		default:
		}
		select {
		case <-q.ch:
			q.dropped.Add(1)
			outputDroppedTotal.Inc()
		default:
		}
	}
}

// Drain returns every line buffered at the time of the call without blocking.
func (q *OutputQueue) Drain() []Line {
	n := len(q.ch)
	if n == 0 {
		return nil
	}
	out := make([]Line, 0, n)
	for i := 0; i < n; i++ {
		select {
		case l := <-q.ch:
			out = append(out, l)
		default:
			return out
		}
	}
	return out
}

// C exposes the queue for callers that would rather wait than poll.
func (q *OutputQueue) C() <-chan Line { return q.ch }

// Len is the number of buffered lines.
func (q *OutputQueue) Len() int { return len(q.ch) }

// Cap is the queue capacity.
func (q *OutputQueue) Cap() int { return cap(q.ch) }

// Dropped counts lines evicted because the consumer fell behind.
func (q *OutputQueue) Dropped() uint64 { return q.dropped.Load() }
