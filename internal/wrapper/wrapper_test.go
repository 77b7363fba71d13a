package wrapper

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wormgrid/server/internal/component"
	"github.com/wormgrid/server/internal/core/request"
	"github.com/wormgrid/server/internal/data"
	"github.com/wormgrid/server/internal/world"
	"go.uber.org/zap"
)

var (
	alice = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	bob   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

var wormTmpl = &data.EntityTemplate{
	ID:         "worm",
	Category:   component.CategoryWorker,
	Caps:       component.Caps(component.CapMove, component.CapHarvest),
	HP:         10,
	ViewRadius: 2,
	Items:      map[string]int{"food": 1},
}

var boulderTmpl = &data.EntityTemplate{
	ID:       "boulder",
	Category: component.CategoryObstacle,
}

func setup(t *testing.T) (*world.View, *request.Queue, *world.World) {
	t.Helper()
	w := world.New(8, 8, zap.NewNop())
	require.NoError(t, w.BeginCollecting())
	require.NoError(t, w.BeginTranslating())
	require.NoError(t, w.BeginApplying())
	q := request.NewQueue()
	q.Open()
	return w.Snapshot(), q, w
}

func TestFor_OwnershipAndLiveness(t *testing.T) {
	v, q, w := setup(t)
	worm, err := w.Spawn(wormTmpl, alice, 1, 1)
	require.NoError(t, err)

	_, err = For(v, q, bob, worm)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = For(v, q, alice, 99)
	assert.ErrorIs(t, err, ErrNoEntity)

	wr, err := For(v, q, alice, worm)
	require.NoError(t, err)
	assert.Equal(t, worm, wr.ID())
}

func TestWrapper_ReadsCopyOutOfTheSnapshot(t *testing.T) {
	v, q, w := setup(t)
	worm, err := w.Spawn(wormTmpl, alice, 3, 4)
	require.NoError(t, err)

	wr, err := For(v, q, alice, worm)
	require.NoError(t, err)

	x, y := wr.Position()
	assert.Equal(t, [2]int{3, 4}, [2]int{x, y})
	hp, maxHP := wr.Health()
	assert.Equal(t, 10, hp)
	assert.Equal(t, 10, maxHP)
	assert.Equal(t, 0, wr.Experience(component.SkillHarvest))
	assert.Equal(t, 1, wr.ItemCount("food"))
	assert.Equal(t, 2, wr.ViewRadius())

	cat, sub := wr.Type()
	assert.Equal(t, component.CategoryWorker, cat)
	assert.Empty(t, sub)
	assert.True(t, wr.Can(component.CapMove))
	assert.False(t, wr.Can(component.CapAttack))
}

func TestWrapper_ActionMethodsAppendRequests(t *testing.T) {
	v, q, w := setup(t)
	worm, err := w.Spawn(wormTmpl, alice, 1, 1)
	require.NoError(t, err)

	wr, err := For(v, q, alice, worm)
	require.NoError(t, err)

	require.NoError(t, wr.Move(2, 1))
	require.NoError(t, wr.Harvest(1, 2))
	assert.Equal(t, 2, q.Len())

	q.Close()
	reqs := q.Drain()
	require.Len(t, reqs, 2)
	mv := reqs[0].(*request.Move)
	assert.Equal(t, worm, mv.Source())
	assert.Equal(t, alice, mv.Player())
	assert.Equal(t, [2]int{2, 1}, [2]int{mv.ToX, mv.ToY})
}

func TestWrapper_CapabilityGateIsLocal(t *testing.T) {
	v, q, w := setup(t)
	worm, err := w.Spawn(wormTmpl, alice, 1, 1)
	require.NoError(t, err)
	rock, err := w.Spawn(boulderTmpl, alice, 5, 5)
	require.NoError(t, err)

	wr, err := For(v, q, alice, worm)
	require.NoError(t, err)
	assert.ErrorIs(t, wr.Attack(2, 1), ErrUnsupportedCapability)

	// A rejected method leaves the queue untouched and the tick alive:
	// other wrappers keep working.
	rockWr, err := For(v, q, alice, rock)
	require.NoError(t, err)
	assert.ErrorIs(t, rockWr.Move(5, 6), ErrUnsupportedCapability)
	assert.Equal(t, 0, q.Len())
}
