package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wormgrid/server/internal/core/action"
	"github.com/wormgrid/server/internal/core/request"
)

func TestMovement_ConflictResolvedByLowerEntityID(t *testing.T) {
	// A and B flank (5,5); both ask for it in the same tick.
	w, ids := buildWorld(t, 16, 16,
		spawn{wormTmpl, alice, 4, 5},
		spawn{wormTmpl, bob, 6, 5},
	)
	a, b := ids[0], ids[1]
	require.Less(t, a, b)

	s := NewMovementSystem()
	s.Reset()
	v := w.Snapshot()

	actsA, rejA := s.Translate(v, request.NewMove(alice, a, 5, 5))
	actsB, rejB := s.Translate(v, request.NewMove(bob, b, 5, 5))

	require.Nil(t, rejA)
	require.Len(t, actsA, 1)
	mv := actsA[0].(*action.Move)
	assert.Equal(t, a, mv.Entity)
	assert.Equal(t, 5, mv.ToX)
	assert.Equal(t, 5, mv.ToY)

	// Exactly one move action for the tile; the loser is observable.
	assert.Empty(t, actsB)
	require.NotNil(t, rejB)
	assert.Equal(t, b, rejB.Entity)
	assert.Equal(t, request.KindMove, rejB.Kind)
	assert.Contains(t, rejB.Reason, "claimed")
}

func TestMovement_ClaimsResetBetweenTicks(t *testing.T) {
	w, ids := buildWorld(t, 16, 16, spawn{wormTmpl, alice, 4, 5})
	s := NewMovementSystem()

	s.Reset()
	acts, rej := s.Translate(w.Snapshot(), request.NewMove(alice, ids[0], 5, 5))
	require.Nil(t, rej)
	require.Len(t, acts, 1)

	// Next tick: the same tile is claimable again.
	s.Reset()
	acts, rej = s.Translate(w.Snapshot(), request.NewMove(alice, ids[0], 5, 5))
	require.Nil(t, rej)
	assert.Len(t, acts, 1)
}

func TestMovement_PreChecks(t *testing.T) {
	w, ids := buildWorld(t, 8, 8,
		spawn{wormTmpl, alice, 1, 1},
		spawn{boulderTmpl, alice, 2, 1},
		spawn{foodTmpl(5), alice, 4, 4},
	)
	worm, food := ids[0], ids[2]
	s := NewMovementSystem()
	s.Reset()
	v := w.Snapshot()

	cases := []struct {
		name   string
		req    *request.Move
		reason string
	}{
		{"occupied tile", request.NewMove(alice, worm, 2, 1), "occupied"},
		{"not adjacent", request.NewMove(alice, worm, 4, 1), "adjacent"},
		{"out of bounds", request.NewMove(alice, worm, -1, 1), "bounds"},
		{"no move capability", request.NewMove(alice, food, 4, 5), "cannot move"},
		{"stale source", request.NewMove(alice, worm+1000, 1, 2), "no longer exists"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			acts, rej := s.Translate(v, tc.req)
			assert.Empty(t, acts)
			require.NotNil(t, rej)
			assert.Contains(t, rej.Reason, tc.reason)
		})
	}
}
