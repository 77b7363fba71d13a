package request

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ErrQueueClosed is returned for appends outside the collection window.
var ErrQueueClosed = errors.New("request queue is closed")

// Queue buffers one tick's requests in per-player lanes. Appends are the
// only shared-write point while scripts run concurrently, so they are
// mutex-guarded; within a lane, insertion order is preserved. Drain merges
// the lanes by sorted player id — never by arrival interleaving — so the
// merged sequence is identical no matter how script goroutines raced.
type Queue struct {
	mu    sync.Mutex
	open  bool
	lanes map[uuid.UUID][]Request
}

func NewQueue() *Queue {
	return &Queue{
		lanes: make(map[uuid.UUID][]Request, 8),
	}
}

// Open starts a collection window. Any previously drained content is gone.
func (q *Queue) Open() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.open = true
	for p := range q.lanes {
		delete(q.lanes, p)
	}
}

// Append adds a request to its player's lane.
func (q *Queue) Append(r Request) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.open {
		return ErrQueueClosed
	}
	q.lanes[r.Player()] = append(q.lanes[r.Player()], r)
	return nil
}

// Close ends the collection window; the queue becomes readable.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.open = false
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, lane := range q.lanes {
		n += len(lane)
	}
	return n
}

// Drain returns the tick's requests as one deterministic sequence: lanes
// concatenated in ascending player-id order, each lane in insertion order.
// Draining an open queue is a scheduler bug and returns nil.
func (q *Queue) Drain() []Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.open {
		return nil
	}
	players := make([]uuid.UUID, 0, len(q.lanes))
	for p := range q.lanes {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].String() < players[j].String()
	})
	out := make([]Request, 0, 32)
	for _, p := range players {
		out = append(out, q.lanes[p]...)
	}
	for p := range q.lanes {
		delete(q.lanes, p)
	}
	return out
}
