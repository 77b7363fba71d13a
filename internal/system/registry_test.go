package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wormgrid/server/internal/core/action"
	"github.com/wormgrid/server/internal/world"
)

type fakeReaction struct {
	reacts action.Kind
	emits  []action.Kind
}

func (f *fakeReaction) Reacts() action.Kind  { return f.reacts }
func (f *fakeReaction) Emits() []action.Kind { return f.emits }
func (f *fakeReaction) React(*world.View, action.Action) []action.Action {
	return nil
}

func TestRegistry_RejectsDuplicateSystems(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewMovementSystem()))
	assert.Error(t, reg.Register(NewMovementSystem()))
}

func TestValidate_AcceptsTheShippedGraph(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterReaction(NewDefeatReaction())
	reg.RegisterReaction(NewRemovalReaction())
	reg.RegisterReaction(NewExhaustionReaction())
	assert.NoError(t, reg.Validate(8))
}

func TestValidate_RejectsCycles(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterReaction(&fakeReaction{reacts: action.KindDamage, emits: []action.Kind{action.KindDefeat}})
	reg.RegisterReaction(&fakeReaction{reacts: action.KindDefeat, emits: []action.Kind{action.KindDamage}})

	err := reg.Validate(8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestValidate_RejectsSelfLoop(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterReaction(&fakeReaction{reacts: action.KindDamage, emits: []action.Kind{action.KindDamage}})
	assert.Error(t, reg.Validate(8))
}

func TestValidate_RejectsChainsDeeperThanBound(t *testing.T) {
	reg := NewRegistry()
	// damage → defeat → remove_entity → spawn: three hops.
	reg.RegisterReaction(&fakeReaction{reacts: action.KindDamage, emits: []action.Kind{action.KindDefeat}})
	reg.RegisterReaction(&fakeReaction{reacts: action.KindDefeat, emits: []action.Kind{action.KindRemoveEntity}})
	reg.RegisterReaction(&fakeReaction{reacts: action.KindRemoveEntity, emits: []action.Kind{action.KindSpawn}})

	assert.NoError(t, reg.Validate(3))
	err := reg.Validate(2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hops")
}
