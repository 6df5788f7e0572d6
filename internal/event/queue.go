package event

import (
	"container/heap"
	"fmt"
)

// Queue is the global event heap: a min-heap on Time with insertion-sequence
// tie-break, and lazy invalidation on Pop. It never searches the heap to
// remove an event; a ball flips its owned events' valid flag instead, and
// Pop discards whatever it finds invalid.
type Queue struct {
	items     ordered
	nextSeq   int64
	discarded int

	// Verbose mirrors original_source/src/event_heap.py's discard logging:
	// get_next_event prints a structured line whenever it skips a stale
	// event. Off by default; ballsim run --verbose turns it on.
	Verbose bool
}

func NewQueue() *Queue {
	q := &Queue{items: make(ordered, 0)}
	heap.Init(&q.items)
	return q
}

// Push adds e to the heap, stamping it with the next insertion sequence
// number so equal-time events pop in the order they were pushed.
func (q *Queue) Push(e Event) {
	q.nextSeq++
	e.setSeq(q.nextSeq)
	heap.Push(&q.items, e)
}

// Pop returns the earliest valid event, discarding any invalid ones it
// encounters along the way. Returns nil once the heap is exhausted.
func (q *Queue) Pop() Event {
	for q.items.Len() > 0 {
		e := heap.Pop(&q.items).(Event)
		if e.Valid() {
			return e
		}
		q.discarded++
		if q.Verbose {
			fmt.Printf("discarding stale event kind=%v time=%.6f participants=%v\n", e.Kind(), e.Time(), e.Participants())
		}
	}
	return nil
}

// Len is the number of entries still in the heap, valid or not.
func (q *Queue) Len() int { return q.items.Len() }

// Discarded is the running count of invalid events skipped by Pop.
func (q *Queue) Discarded() int { return q.discarded }

type ordered []Event

func (o ordered) Len() int { return len(o) }

func (o ordered) Less(i, j int) bool {
	if o[i].Time() != o[j].Time() {
		return o[i].Time() < o[j].Time()
	}
	return o[i].seq() < o[j].seq()
}

func (o ordered) Swap(i, j int) { o[i], o[j] = o[j], o[i] }

func (o *ordered) Push(x any) {
	*o = append(*o, x.(Event))
}

func (o *ordered) Pop() any {
	old := *o
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return x
}
