package action

// Queue is the per-tick action buffer. Application is one forward pass in
// strict insertion order; reaction-spawned actions are pushed at the tail
// with their hop count and picked up by the same pass, so the queue may
// grow while being drained.
type Queue struct {
	items []queued
	next  int
}

type queued struct {
	act Action
	hop int
}

func NewQueue() *Queue {
	return &Queue{items: make([]queued, 0, 64)}
}

// Push appends an action with its reaction hop count. Request-derived
// actions enter at hop 0.
func (q *Queue) Push(a Action, hop int) {
	q.items = append(q.items, queued{act: a, hop: hop})
}

// Next returns the next unapplied action and its hop count, advancing the
// pass cursor. The false return terminates the pass.
func (q *Queue) Next() (Action, int, bool) {
	if q.next >= len(q.items) {
		return nil, 0, false
	}
	item := q.items[q.next]
	q.next++
	return item.act, item.hop, true
}

// Len is the total number of actions enqueued this tick, applied or not.
func (q *Queue) Len() int { return len(q.items) }
