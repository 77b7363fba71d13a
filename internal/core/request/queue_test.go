package request

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wormgrid/server/internal/core/ecs"
)

var (
	alice = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	bob   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func TestQueue_LaneOrderIsInsertionOrder(t *testing.T) {
	q := NewQueue()
	q.Open()
	require.NoError(t, q.Append(NewMove(alice, ecs.EntityID(1), 1, 0)))
	require.NoError(t, q.Append(NewMove(alice, ecs.EntityID(1), 2, 0)))
	require.NoError(t, q.Append(NewMove(alice, ecs.EntityID(2), 3, 0)))
	q.Close()

	reqs := q.Drain()
	require.Len(t, reqs, 3)
	assert.Equal(t, 1, reqs[0].(*Move).ToX)
	assert.Equal(t, 2, reqs[1].(*Move).ToX)
	assert.Equal(t, 3, reqs[2].(*Move).ToX)
}

func TestQueue_ClosedForAppendsOutsideWindow(t *testing.T) {
	q := NewQueue()
	assert.ErrorIs(t, q.Append(NewMove(alice, ecs.EntityID(1), 0, 0)), ErrQueueClosed)

	q.Open()
	require.NoError(t, q.Append(NewMove(alice, ecs.EntityID(1), 0, 0)))
	q.Close()
	assert.ErrorIs(t, q.Append(NewMove(alice, ecs.EntityID(1), 0, 0)), ErrQueueClosed)

	// Drain before close returns nothing.
	q.Open()
	q.Append(NewMove(alice, ecs.EntityID(1), 0, 0))
	assert.Nil(t, q.Drain())
}

func TestQueue_MergeIgnoresArrivalInterleaving(t *testing.T) {
	drainWith := func(appendOrder []Request) []Request {
		q := NewQueue()
		q.Open()
		for _, r := range appendOrder {
			require.NoError(t, q.Append(r))
		}
		q.Close()
		return q.Drain()
	}

	a1 := NewMove(alice, ecs.EntityID(1), 1, 1)
	a2 := NewAttack(alice, ecs.EntityID(2), 2, 2)
	b1 := NewMove(bob, ecs.EntityID(3), 3, 3)

	first := drainWith([]Request{a1, b1, a2})
	second := drainWith([]Request{b1, a1, a2})

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Same(t, first[i], second[i])
	}
	// Lanes come out in player-id order, lane content in insertion order.
	assert.Equal(t, []Request{a1, a2, b1}, first)
}

func TestQueue_ConcurrentAppendIsSafe(t *testing.T) {
	q := NewQueue()
	q.Open()

	var wg sync.WaitGroup
	players := []uuid.UUID{alice, bob}
	for i, p := range players {
		wg.Add(1)
		go func(p uuid.UUID, base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = q.Append(NewMove(p, ecs.EntityID(base), j, 0))
			}
		}(p, i+1)
	}
	wg.Wait()
	q.Close()

	reqs := q.Drain()
	require.Len(t, reqs, 200)
	// Alice's lane precedes Bob's, each in per-player insertion order.
	for j := 0; j < 100; j++ {
		assert.Equal(t, j, reqs[j].(*Move).ToX)
		assert.Equal(t, j, reqs[100+j].(*Move).ToX)
	}
}
