package system

import (
	"github.com/wormgrid/server/internal/component"
	"github.com/wormgrid/server/internal/core/action"
	"github.com/wormgrid/server/internal/world"
)

// DefeatReaction watches applied Damage actions and emits a Defeat once the
// target's health is gone. It reads live state: a second Damage against an
// already-marked target emits nothing more.
type DefeatReaction struct{}

func NewDefeatReaction() *DefeatReaction { return &DefeatReaction{} }

func (*DefeatReaction) Reacts() action.Kind  { return action.KindDamage }
func (*DefeatReaction) Emits() []action.Kind { return []action.Kind{action.KindDefeat} }

func (*DefeatReaction) React(v *world.View, a action.Action) []action.Action {
	dmg := a.(*action.Damage)
	if !v.Alive(dmg.Target) || v.IsDefeated(dmg.Target) {
		return nil
	}
	if !v.HealthOf(dmg.Target).Dead() {
		return nil
	}
	return []action.Action{&action.Defeat{Target: dmg.Target}}
}

// RemovalReaction turns a Defeat into the entity's removal. Kept separate
// from DefeatReaction so anything observing the Defeat (view frames, the
// defeat journal) still sees the entity before it vanishes.
type RemovalReaction struct{}

func NewRemovalReaction() *RemovalReaction { return &RemovalReaction{} }

func (*RemovalReaction) Reacts() action.Kind  { return action.KindDefeat }
func (*RemovalReaction) Emits() []action.Kind { return []action.Kind{action.KindRemoveEntity} }

func (*RemovalReaction) React(v *world.View, a action.Action) []action.Action {
	def := a.(*action.Defeat)
	if !v.Alive(def.Target) {
		return nil
	}
	return []action.Action{&action.RemoveEntity{Target: def.Target}}
}

// ExhaustionReaction removes a resource once a transfer drained its last
// item, freeing the tile for movement next tick.
type ExhaustionReaction struct{}

func NewExhaustionReaction() *ExhaustionReaction { return &ExhaustionReaction{} }

func (*ExhaustionReaction) Reacts() action.Kind  { return action.KindTransferItem }
func (*ExhaustionReaction) Emits() []action.Kind { return []action.Kind{action.KindRemoveEntity} }

func (*ExhaustionReaction) React(v *world.View, a action.Action) []action.Action {
	tr := a.(*action.TransferItem)
	if !v.Alive(tr.From) {
		return nil
	}
	if v.TypeOf(tr.From).Category != component.CategoryResource {
		return nil
	}
	if !v.InventoryOf(tr.From).Empty() {
		return nil
	}
	return []action.Action{&action.RemoveEntity{Target: tr.From}}
}
